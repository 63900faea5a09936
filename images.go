package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// imageExtensions lists the formats the artwork directory may hold, probed in
// order.
var imageExtensions = []struct {
	ext  string
	mime string
}{
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".png", "image/png"},
}

// PokemonImage loads the artwork for a dex number from data/pokemon_jpg.
// Missing artwork is an expected condition, reported via the bool, not an
// error.
func PokemonImage(dataDir string, dexnum int) ([]byte, string, bool) {
	base := filepath.Join(dataDir, "pokemon_jpg")
	for _, candidate := range imageExtensions {
		path := filepath.Join(base, fmt.Sprintf("%d%s", dexnum, candidate.ext))
		data, err := os.ReadFile(path)
		if err == nil {
			return data, candidate.mime, true
		}
		if !os.IsNotExist(err) {
			if logger != nil {
				logger.Warn("Failed to read pokemon image", "error", err, "path", path)
			}
		}
	}
	return nil, "", false
}

// PokemonImageHTML renders an <img> tag pointing at the image endpoint, for
// embedding in report fragments.
func PokemonImageHTML(dexnum, width int) (string, bool) {
	if dexnum <= 0 {
		return "", false
	}
	return fmt.Sprintf(`<img src="/api/pokemon/%d/image" width="%d" alt="pokemon %d">`, dexnum, width, dexnum), true
}
