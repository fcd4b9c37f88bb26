package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsWideCells(t *testing.T) {
	table := textTable{
		headers: []string{"Item", "Accuracy", "Correct"},
		rows: [][]string{
			{"a", "97.50%", "12"},
			{"ねこ", "8.00%", "3"},
		},
		right: []int{1, 2},
	}

	lines := table.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Item Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a      97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ねこ    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableShortRowsArePadded(t *testing.T) {
	var buf bytes.Buffer
	table := textTable{headers: []string{"A", "B"}, rows: [][]string{{"xyz"}}}
	if err := table.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "A   B\nxyz  \n" {
		t.Fatalf("unexpected output %q", got)
	}
	if lines := (textTable{}).lines(); lines != nil {
		t.Fatalf("expected no lines for an empty table, got %v", lines)
	}
}
