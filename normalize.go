package main

import "strings"

// TypeLiteralsKoToEn maps the Korean type names the model sometimes emits to
// the canonical English names stored in pokemon.type1/type2 and the
// effectiveness matrix.
var TypeLiteralsKoToEn = map[string]string{
	"전기":  "Electric",
	"불꽃":  "Fire",
	"물":   "Water",
	"풀":   "Grass",
	"얼음":  "Ice",
	"격투":  "Fighting",
	"에스퍼": "Psychic",
	"바위":  "Rock",
	"땅":   "Ground",
	"비행":  "Flying",
	"노말":  "Normal",
	"고스트": "Ghost",
	"악":   "Dark",
	"강철":  "Steel",
	"드래곤": "Dragon",
	"페어리": "Fairy",
	"벌레":  "Bug",
	"독":   "Poison",
}

// NormalizeTypeLiterals rewrites quoted Korean type literals inside a SQL
// string to their English equivalents. Only exact quoted matches ('전기') are
// replaced, so identifiers and proper-noun name literals are left alone. The
// transform is idempotent: English type names never match a Korean pattern.
func NormalizeTypeLiterals(sqlText string) string {
	if sqlText == "" {
		return sqlText
	}
	for ko, en := range TypeLiteralsKoToEn {
		sqlText = strings.ReplaceAll(sqlText, "'"+ko+"'", "'"+en+"'")
	}
	return sqlText
}
