package main

import (
	"fmt"
	"strings"
)

// RowSet is the tabular result of an executed query. Columns keep the
// projection order emitted by the statement; Rows may be empty.
type RowSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (r *RowSet) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Markdown renders the row set as a markdown table, capped at maxRows
// (0 means all rows). Used for the TUI transcript and report previews.
func (r *RowSet) Markdown(maxRows int) string {
	if r.Empty() {
		return "_no rows_"
	}

	var b strings.Builder
	b.WriteString("| ")
	for _, col := range r.Columns {
		b.WriteString(col)
		b.WriteString(" | ")
	}
	b.WriteString("\n|")
	for range r.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	shown := 0
	for _, row := range r.Rows {
		if maxRows > 0 && shown >= maxRows {
			break
		}
		b.WriteString("| ")
		for _, val := range row {
			b.WriteString(formatCell(val))
			b.WriteString(" | ")
		}
		b.WriteString("\n")
		shown++
	}

	if maxRows > 0 && len(r.Rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n*(showing first %d of %d rows)*\n", maxRows, len(r.Rows)))
	}

	return b.String()
}

func formatCell(val any) string {
	if val == nil {
		return "NULL"
	}
	switch v := val.(type) {
	case float64:
		return fmt.Sprintf("%.2f", v)
	case float32:
		return fmt.Sprintf("%.2f", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
