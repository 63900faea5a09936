package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDB creates a test database with mock data
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	// Create temporary directory for test database
	tmpDir, err := os.MkdirTemp("", "pokelab-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	// Copy mock CSV files to temp directory
	testdataDir := "testdata"
	files := []string{
		"pokemon_data.csv",
		"userdata.csv",
		"user_pokemon.csv",
	}

	for _, file := range files {
		src := filepath.Join(testdataDir, file)
		dst := filepath.Join(tmpDir, file)

		data, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("failed to read %s: %v", src, err)
		}

		if err := os.WriteFile(dst, data, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", dst, err)
		}
	}

	// Initialize database
	db, err := NewDB(tmpDir)
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}

	// Return cleanup function
	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

// stubTranslator returns canned translations keyed by question, so pipeline
// tests run without an API key.
type stubTranslator struct {
	responses map[string]TranslationResult
}

func (s *stubTranslator) Translate(ctx context.Context, question string, history []string) TranslationResult {
	if result, ok := s.responses[question]; ok {
		return result
	}
	return TranslationResult{Explanation: "오박사: 그 질문은 대답할 수 없구나."}
}

// recordingTranslator captures the history passed to each Translate call.
type recordingTranslator struct {
	seenHistory [][]string
}

func (r *recordingTranslator) Translate(ctx context.Context, question string, history []string) TranslationResult {
	snapshot := make([]string, len(history))
	copy(snapshot, history)
	r.seenHistory = append(r.seenHistory, snapshot)
	return TranslationResult{Explanation: "recorded"}
}
