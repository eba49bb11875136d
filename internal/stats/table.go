package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderTable prints rows under headers with columns padded to display width.
// Columns listed in numeric are right-aligned.
func RenderTable(w io.Writer, headers []string, rows [][]string, numeric map[int]bool) error {
	for _, line := range tableLines(headers, rows, numeric) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func tableLines(headers []string, rows [][]string, numeric map[int]bool) []string {
	all := rows
	if len(headers) > 0 {
		all = append([][]string{headers}, rows...)
	}
	widths := columnWidths(all)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(all))
	for _, row := range all {
		cells := make([]string, len(widths))
		for col, width := range widths {
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			if numeric[col] {
				cells[col] = runewidth.FillLeft(cell, width)
			} else {
				cells[col] = runewidth.FillRight(cell, width)
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return lines
}

// columnWidths returns the widest cell per column across every row.
func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, cell := range row {
			if col == len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], runewidth.StringWidth(cell))
		}
	}
	return widths
}
