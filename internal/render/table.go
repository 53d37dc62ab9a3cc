package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// ColorFunc maps a cell value to a colored string. If nil, no color is applied.
type ColorFunc func(value string) string

// Column describes a single table column.
type Column struct {
	Header string
	Align  Alignment
	Color  ColorFunc

	// MaxWidth truncates longer cells with an ellipsis. Zero means unlimited.
	MaxWidth int
}

// Table renders aligned text tables to an io.Writer.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given column definitions.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Extra values are ignored; missing values are empty.
// Newlines are flattened to spaces so that every row stays on one line.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i >= len(values) {
			continue
		}
		v := strings.Join(strings.Fields(values[i]), " ")
		row[i] = truncate(v, t.columns[i].MaxWidth)
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to w with computed column widths.
func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = width(col.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], width(cell))
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = pad(col.Header, bold.Sprint(col.Header), widths[i], col.Align)
		rule[i] = strings.Repeat("-", widths[i])
	}
	if err := writeLine(w, header); err != nil {
		return err
	}
	if err := writeLine(w, rule); err != nil {
		return err
	}

	for _, row := range t.rows {
		parts := make([]string, len(t.columns))
		for i, col := range t.columns {
			display := row[i]
			if col.Color != nil {
				display = col.Color(row[i])
			}
			parts[i] = pad(row[i], display, widths[i], col.Align)
		}
		if err := writeLine(w, parts); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, parts []string) error {
	line := strings.TrimRight("  "+strings.Join(parts, "  "), " ")
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// pad justifies display using the width of raw, since display may carry
// ANSI escapes.
func pad(raw, display string, w int, align Alignment) string {
	n := max(w-width(raw), 0)
	if align == AlignRight {
		return strings.Repeat(" ", n) + display
	}
	return display + strings.Repeat(" ", n)
}

func width(s string) int { return utf8.RuneCountInString(s) }

func truncate(s string, limit int) string {
	if limit <= 0 || width(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}
