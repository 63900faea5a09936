package main

import (
	"fmt"
	"strings"
	"unicode"
)

// IsReadOnlyQuery reports whether the statement is SELECT-shaped: a single
// SELECT or WITH ... SELECT. Generated SQL is untrusted input, so the executor
// applies this gate regardless of what the translator promised. Compound
// statements are rejected even when the first one is a SELECT, because the
// driver would execute every statement in the string against the shared
// read-write store.
func IsReadOnlyQuery(sqlText string) bool {
	normalized := strings.ToLower(strings.TrimSpace(sqlText))
	if normalized == "" {
		return false
	}
	if !strings.HasPrefix(normalized, "select") && !strings.HasPrefix(normalized, "with") {
		return false
	}
	return !hasSecondStatement(sqlText)
}

// guardReadOnly returns a descriptive error naming the offending verb when the
// statement is not read-only.
func guardReadOnly(sqlText string) error {
	normalized := strings.ToLower(strings.TrimSpace(sqlText))
	if normalized == "" || (!strings.HasPrefix(normalized, "select") && !strings.HasPrefix(normalized, "with")) {
		return fmt.Errorf("%w: statement begins with %q", ErrNotReadOnly, firstKeyword(sqlText))
	}
	if hasSecondStatement(sqlText) {
		return fmt.Errorf("%w: compound statements are rejected", ErrNotReadOnly)
	}
	return nil
}

// hasSecondStatement reports whether anything follows a top-level semicolon.
// Semicolons inside string literals, quoted identifiers, and comments do not
// count; a single trailing semicolon does not count either.
func hasSecondStatement(sqlText string) bool {
	runes := []rune(sqlText)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\'':
			i = skipQuoted(runes, i, '\'')
		case '"':
			i = skipQuoted(runes, i, '"')
		case '-':
			if i+1 < len(runes) && runes[i+1] == '-' {
				for i < len(runes) && runes[i] != '\n' {
					i++
				}
			}
		case '/':
			if i+1 < len(runes) && runes[i+1] == '*' {
				i += 2
				for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
					i++
				}
				i++
			}
		case ';':
			for j := i + 1; j < len(runes); j++ {
				if !unicode.IsSpace(runes[j]) {
					return true
				}
			}
			return false
		}
	}
	return false
}

// skipQuoted advances past a quoted region opened at start, honoring doubled
// quote escapes. Returns the index of the closing quote, or the end of input
// for an unterminated literal.
func skipQuoted(runes []rune, start int, quote rune) int {
	i := start + 1
	for i < len(runes) {
		if runes[i] == quote {
			if i+1 < len(runes) && runes[i+1] == quote {
				i += 2
				continue
			}
			return i
		}
		i++
	}
	return i
}

func firstKeyword(sqlText string) string {
	fields := strings.Fields(strings.TrimSpace(sqlText))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
