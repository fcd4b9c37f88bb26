package tui

import (
	"strings"
	"testing"
)

func TestBuildTilesDimsPlaced(t *testing.T) {
	tiles := buildTiles([]string{"ka", "し"}, []int{1})
	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(tiles))
	}
	if tiles[0].s != tileStyle.Render("[1 ka]") {
		t.Fatalf("expected available style for first tile")
	}
	if tiles[1].s != usedTileStyle.Render("[2 し]") {
		t.Fatalf("expected used style for placed tile")
	}
	if tiles[1].width != 6 {
		t.Fatalf("expected wide glyph to count two cells, got %d", tiles[1].width)
	}
}

func TestBuildSlotsColorsAfterCheck(t *testing.T) {
	tiles := []string{"ka", "a", "shi"}
	answers := []string{"a", "ka"}

	open := buildSlots(tiles, []int{1}, answers, false)
	if open[0].s != placedStyle.Render("a") {
		t.Fatalf("expected placed style before check")
	}
	if open[1].s != pendingStyle.Render("__") {
		t.Fatalf("expected placeholder for empty slot")
	}

	checked := buildSlots(tiles, []int{1, 2}, answers, true)
	if checked[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for matching slot")
	}
	if checked[1].s != incorrectStyle.Render("shi") {
		t.Fatalf("expected incorrect style for wrong slot")
	}
}

func TestWrapTilesBreaksBetweenTiles(t *testing.T) {
	tiles := []styledTile{
		{s: "aaaa", width: 4},
		{s: "bbbb", width: 4},
		{s: "cc", width: 2},
	}
	out := wrapTiles(tiles, 9)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if lines[0] != "aaaa bbbb" || lines[1] != "cc" {
		t.Fatalf("unexpected wrap: %q", out)
	}
	if got := wrapTiles(tiles, 0); got != "aaaa bbbb cc" {
		t.Fatalf("unexpected unwrapped output %q", got)
	}
}
