package main

import (
	"strings"
	"testing"
)

func TestRowSetMarkdown(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		rs := &RowSet{Columns: []string{"name"}, Rows: [][]any{}}
		if got := rs.Markdown(0); got != "_no rows_" {
			t.Errorf("Markdown() = %q, want _no rows_", got)
		}
	})

	t.Run("nil receiver", func(t *testing.T) {
		var rs *RowSet
		if got := rs.Markdown(0); got != "_no rows_" {
			t.Errorf("Markdown() = %q, want _no rows_", got)
		}
	})

	t.Run("renders header and rows", func(t *testing.T) {
		rs := &RowSet{
			Columns: []string{"name", "speed"},
			Rows: [][]any{
				{"피카츄", int64(90)},
				{"라이츄", int64(110)},
			},
		}
		got := rs.Markdown(0)
		if !strings.Contains(got, "| name | speed |") {
			t.Errorf("missing header row in %q", got)
		}
		if !strings.Contains(got, "| 피카츄 | 90 |") {
			t.Errorf("missing data row in %q", got)
		}
		if strings.Contains(got, "showing first") {
			t.Errorf("unexpected truncation footer in %q", got)
		}
	})

	t.Run("truncates with footer", func(t *testing.T) {
		rs := &RowSet{
			Columns: []string{"n"},
			Rows:    [][]any{{int64(1)}, {int64(2)}, {int64(3)}, {int64(4)}},
		}
		got := rs.Markdown(2)
		if !strings.Contains(got, "(showing first 2 of 4 rows)") {
			t.Errorf("missing truncation footer in %q", got)
		}
		if strings.Contains(got, "| 3 |") {
			t.Errorf("row beyond cap rendered in %q", got)
		}
	})
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"nil", nil, "NULL"},
		{"float64", 1.5, "1.50"},
		{"float rounding", float64(0.666), "0.67"},
		{"int64", int64(42), "42"},
		{"string", "피카츄", "피카츄"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.val); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.val, got, tt.want)
			}
		})
	}
}
