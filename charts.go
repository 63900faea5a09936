package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarChart creates a horizontal bar chart
func BarChart(label string, value, max float64, width int, color lipgloss.Color) string {
	if max == 0 {
		max = value
	}

	percentage := value / max
	if percentage > 1 {
		percentage = 1
	}

	filledWidth := int(float64(width) * percentage)
	if filledWidth < 0 {
		filledWidth = 0
	}
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return fmt.Sprintf("%s %s%s %.0f",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		value,
	)
}

// Sparkline creates a simple sparkline from values
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	// Find min and max
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Sparkline characters from bottom to top
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var result strings.Builder
	for _, v := range values {
		var idx int
		if max == min {
			idx = len(chars) / 2
		} else {
			normalized := (v - min) / (max - min)
			idx = int(normalized * float64(len(chars)-1))
		}
		result.WriteRune(chars[idx])
	}

	return result.String()
}

// statPriority orders which numeric column gets charted when a result set
// contains several. Stat columns beat generic numbers.
var statPriority = []string{"total", "attack", "hp", "defense", "sp_atk", "sp_def", "speed"}

// statBarColors gives each charted stat its own hue.
var statBarColors = map[string]lipgloss.Color{
	"hp":      lipgloss.Color("82"),
	"attack":  lipgloss.Color("196"),
	"defense": lipgloss.Color("33"),
	"sp_atk":  lipgloss.Color("201"),
	"sp_def":  lipgloss.Color("51"),
	"speed":   lipgloss.Color("226"),
	"total":   lipgloss.Color("214"),
}

// pickChartColumns chooses a label column and a value column from a result
// set. The label is the first column named "name" (falling back to the first
// string-ish column); the value is the highest-priority stat column present.
// Returns -1 indexes when the result is not chartable.
func pickChartColumns(rs *RowSet) (labelIdx, valueIdx int) {
	labelIdx, valueIdx = -1, -1
	if rs == nil || rs.Empty() {
		return
	}

	for i, col := range rs.Columns {
		if strings.EqualFold(col, "name") {
			labelIdx = i
			break
		}
	}
	if labelIdx == -1 {
		for i, cell := range rs.Rows[0] {
			if _, ok := cell.(string); ok {
				labelIdx = i
				break
			}
		}
	}

	for _, stat := range statPriority {
		for i, col := range rs.Columns {
			if strings.EqualFold(col, stat) {
				valueIdx = i
				return
			}
		}
	}
	return
}

// numericCell coerces a scanned value into a float64 for charting.
func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// StatBars renders one bar per result row for the dominant stat column, so a
// "top 5 by speed" answer gets an immediate visual. Returns "" when the
// result has no chartable columns.
func StatBars(rs *RowSet, width int) string {
	labelIdx, valueIdx := pickChartColumns(rs)
	if labelIdx == -1 || valueIdx == -1 {
		return ""
	}

	color, ok := statBarColors[strings.ToLower(rs.Columns[valueIdx])]
	if !ok {
		color = lipgloss.Color("33")
	}

	maxVal := 0.0
	type entry struct {
		label string
		value float64
	}
	var entries []entry
	for _, row := range rs.Rows {
		label, _ := row[labelIdx].(string)
		value, ok := numericCell(row[valueIdx])
		if !ok || label == "" {
			continue
		}
		if value > maxVal {
			maxVal = value
		}
		entries = append(entries, entry{label: label, value: value})
	}
	if len(entries) == 0 {
		return ""
	}

	labelWidth := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.label); w > labelWidth {
			labelWidth = w
		}
	}

	var sb strings.Builder
	for _, e := range entries {
		padded := e.label + strings.Repeat(" ", labelWidth-lipgloss.Width(e.label))
		sb.WriteString(BarChart(padded, e.value, maxVal, width, color))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// statValues extracts the dominant stat column as a number series, in row
// order, for sparkline rendering. Returns nil when the result has no stat
// column.
func statValues(rs *RowSet) []float64 {
	_, valueIdx := pickChartColumns(rs)
	if valueIdx == -1 {
		return nil
	}

	var values []float64
	for _, row := range rs.Rows {
		if v, ok := numericCell(row[valueIdx]); ok {
			values = append(values, v)
		}
	}
	return values
}

// typeColumns names the result columns whose values are type names.
var typeColumns = map[string]bool{
	"type1":          true,
	"type2":          true,
	"attacking_type": true,
	"defending_type": true,
}

// typeColors maps type names to terminal colors for badges.
var typeColors = map[string]lipgloss.Color{
	"Normal":   lipgloss.Color("250"),
	"Fire":     lipgloss.Color("202"),
	"Water":    lipgloss.Color("33"),
	"Electric": lipgloss.Color("226"),
	"Grass":    lipgloss.Color("82"),
	"Ice":      lipgloss.Color("51"),
	"Fighting": lipgloss.Color("124"),
	"Poison":   lipgloss.Color("129"),
	"Ground":   lipgloss.Color("178"),
	"Flying":   lipgloss.Color("111"),
	"Psychic":  lipgloss.Color("205"),
	"Bug":      lipgloss.Color("112"),
	"Rock":     lipgloss.Color("137"),
	"Ghost":    lipgloss.Color("98"),
	"Dragon":   lipgloss.Color("57"),
	"Dark":     lipgloss.Color("240"),
	"Steel":    lipgloss.Color("103"),
	"Fairy":    lipgloss.Color("218"),
}

// TypeBadge renders a colored type name for the TUI.
func TypeBadge(typeName string) string {
	color, ok := typeColors[typeName]
	if !ok {
		return typeName
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(typeName)
}

// TypeBadges renders one badge per distinct type name appearing in the
// result's type columns, in first-seen order. Returns "" when the result has
// no type columns.
func TypeBadges(rs *RowSet) string {
	if rs == nil || rs.Empty() {
		return ""
	}

	var typeIdxs []int
	for i, col := range rs.Columns {
		if typeColumns[strings.ToLower(col)] {
			typeIdxs = append(typeIdxs, i)
		}
	}
	if len(typeIdxs) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	var badges []string
	for _, row := range rs.Rows {
		for _, idx := range typeIdxs {
			name, ok := row[idx].(string)
			if !ok || name == "" || seen[name] {
				continue
			}
			seen[name] = true
			badges = append(badges, TypeBadge(name))
		}
	}
	return strings.Join(badges, " ")
}
