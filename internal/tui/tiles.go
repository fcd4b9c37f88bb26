package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledTile struct {
	s     string
	width int
}

// buildTiles renders the numbered answer tiles. Tiles already placed are
// dimmed so they cannot be mistaken for available ones.
func buildTiles(tiles []string, placed []int) []styledTile {
	used := make(map[int]bool, len(placed))
	for _, idx := range placed {
		used[idx] = true
	}
	out := make([]styledTile, 0, len(tiles))
	for i, tile := range tiles {
		label := strconv.Itoa(i+1) + " " + tile
		style := tileStyle
		if used[i] {
			style = usedTileStyle
		}
		out = append(out, styledTile{
			s:     style.Render("[" + label + "]"),
			width: runewidth.StringWidth(label) + 2,
		})
	}
	return out
}

// buildSlots renders the word being assembled, one slot per item. Once the
// word is checked each slot is colored by whether it matches.
func buildSlots(tiles []string, placed []int, answers []string, checked bool) []styledTile {
	out := make([]styledTile, 0, len(answers))
	for i, answer := range answers {
		text := strings.Repeat("_", runewidth.StringWidth(answer))
		style := pendingStyle
		if i < len(placed) {
			text = tiles[placed[i]]
			style = placedStyle
			if checked {
				if text == answer {
					style = correctStyle
				} else {
					style = incorrectStyle
				}
			}
		} else if checked {
			style = incorrectStyle
		}
		out = append(out, styledTile{s: style.Render(text), width: runewidth.StringWidth(text)})
	}
	return out
}

func renderTiles(tiles []styledTile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.s
	}
	return strings.Join(parts, " ")
}

// wrapTiles lays tiles out on lines no wider than width, breaking only
// between tiles.
func wrapTiles(tiles []styledTile, width int) string {
	if width <= 0 {
		return renderTiles(tiles)
	}
	var out strings.Builder
	line := make([]styledTile, 0, len(tiles))
	lineWidth := 0
	for _, tile := range tiles {
		extra := tile.width
		if len(line) > 0 {
			extra++
		}
		if lineWidth+extra > width && len(line) > 0 {
			out.WriteString(renderTiles(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			extra = tile.width
		}
		line = append(line, tile)
		lineWidth += extra
	}
	out.WriteString(renderTiles(line))
	return out.String()
}
