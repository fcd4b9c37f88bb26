package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays rows out in columns measured in terminal cells, so kana and
// kanji count as two.
type textTable struct {
	headers []string
	rows    [][]string
	// right lists the columns aligned to the right.
	right []int
}

func (t textTable) widths() []int {
	var widths []int
	grow := func(cells []string) {
		for i, cell := range cells {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	grow(t.headers)
	for _, row := range t.rows {
		grow(row)
	}
	return widths
}

func (t textTable) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	right := make([]bool, len(widths))
	for _, col := range t.right {
		if col >= 0 && col < len(right) {
			right[col] = true
		}
	}
	render := func(cells []string) string {
		parts := make([]string, len(widths))
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			gap := strings.Repeat(" ", width-runewidth.StringWidth(cell))
			if right[i] {
				parts[i] = gap + cell
			} else {
				parts[i] = cell + gap
			}
		}
		return strings.Join(parts, " ")
	}

	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, render(t.headers))
	}
	for _, row := range t.rows {
		out = append(out, render(row))
	}
	return out
}

func (t textTable) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
