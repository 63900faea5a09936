package main

import "testing"

func TestNormalizeTypeLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"quoted korean type",
			"SELECT name FROM pokemon WHERE type1 = '전기'",
			"SELECT name FROM pokemon WHERE type1 = 'Electric'",
		},
		{
			"two korean types in one query",
			"SELECT name FROM pokemon WHERE type1 = '물' OR type2 = '드래곤'",
			"SELECT name FROM pokemon WHERE type1 = 'Water' OR type2 = 'Dragon'",
		},
		{
			"already english is untouched",
			"SELECT name FROM pokemon WHERE type1 = 'Electric'",
			"SELECT name FROM pokemon WHERE type1 = 'Electric'",
		},
		{
			"unquoted korean substring is untouched",
			"SELECT name FROM pokemon WHERE name = '전기쥐'",
			"SELECT name FROM pokemon WHERE name = '전기쥐'",
		},
		{
			"unknown literal is untouched",
			"SELECT name FROM pokemon WHERE type1 = '우주'",
			"SELECT name FROM pokemon WHERE type1 = '우주'",
		},
		{
			"empty string",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTypeLiterals(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeTypeLiterals(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTypeLiteralsIdempotent(t *testing.T) {
	for ko, en := range TypeLiteralsKoToEn {
		query := "SELECT * FROM type_effectiveness WHERE attacking_type = '" + ko + "'"
		once := NormalizeTypeLiterals(query)
		twice := NormalizeTypeLiterals(once)
		if once != twice {
			t.Errorf("normalization of %q not idempotent: %q vs %q", ko, once, twice)
		}
		want := "SELECT * FROM type_effectiveness WHERE attacking_type = '" + en + "'"
		if once != want {
			t.Errorf("normalization of %q = %q, want %q", ko, once, want)
		}
	}
}
