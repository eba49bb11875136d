package stats

import "testing"

func TestTableLinesAlignsColumns(t *testing.T) {
	headers := []string{"Item", "Week", "Month"}
	rows := [][]string{
		{"piano", "45", "120"},
		{"violín", "5", "0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := tableLines(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Item   Week Month" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "piano    45   120" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "violín    5     0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableLinesTrimsTrailingPadding(t *testing.T) {
	lines := tableLines([]string{"Item", "Note"}, [][]string{{"piano-largo", ""}}, nil)
	if lines[1] != "piano-largo" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}

func TestTableLinesWideRunes(t *testing.T) {
	lines := tableLines([]string{"Item", "Min"}, [][]string{{"琴", "5"}, {"sitar", "40"}, {"x", "1", "extra"}}, map[int]bool{1: true})
	want := []string{
		"Item  Min",
		"琴      5",
		"sitar  40",
		"x       1 extra",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}
