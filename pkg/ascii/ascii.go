// Package ascii renders width-aware boxes and tables for terminal output
package ascii

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of a string, accounting for
// multi-width runes (emoji, CJK, etc.).
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	border := strings.Repeat("─", maxWidth+2)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		sb.WriteString("│ " + runewidth.FillRight(line, maxWidth) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// Truncate shortens value to fit width display cells, appending "..."
// when there is room for it.
func Truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Table is a column-aligned plain text table.
type Table struct {
	Headers []string
	// MaxWidth caps every column; 0 means unlimited
	MaxWidth int
	rows     [][]string
}

// NewTable returns a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the header, a rule and the rows. Columns are separated by
// two spaces and trailing padding is trimmed.
func (t *Table) String() string {
	widths := make([]int, len(t.Headers))
	cell := func(s string) string {
		if t.MaxWidth > 0 {
			return Truncate(s, t.MaxWidth)
		}
		return s
	}
	measure := func(row []string) {
		for i, c := range row {
			if w := StringWidth(cell(c)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.rows {
		measure(row)
	}

	var sb strings.Builder
	write := func(row []string) {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = runewidth.FillRight(cell(c), widths[i])
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		sb.WriteString("\n")
	}

	write(t.Headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	sb.WriteString(strings.Join(rule, "  ") + "\n")
	for _, row := range t.rows {
		write(row)
	}
	return sb.String()
}
