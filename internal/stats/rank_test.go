package stats

import (
	"testing"

	"github.com/verte-zerg/tuidrill/internal/model"
)

func TestTopItemsByFrequency(t *testing.T) {
	aggs := []model.ItemAggregate{
		{Item: "b", Correct: 3, Wrong: 1},
		{Item: "a", Correct: 2, Wrong: 2},
		{Item: "c", Correct: 1, Wrong: 0},
	}
	top := TopItemsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakItems(t *testing.T) {
	aggs := []model.ItemAggregate{
		{Item: "か", Correct: 9, Wrong: 1},
		{Item: "き", Correct: 1, Wrong: 3},
		{Item: "く", Correct: 0, Wrong: 0},
		{Item: "け", Correct: 2, Wrong: 6},
	}
	weak := SelectWeakItems(aggs, 2)
	if len(weak) != 2 || weak[0] != "け" || weak[1] != "き" {
		t.Fatalf("unexpected weak items: %v", weak)
	}
	if all := SelectWeakItems(aggs, 0); len(all) != 3 {
		t.Fatalf("expected unanswered items skipped, got %v", all)
	}
	if none := SelectWeakItems(nil, 3); none != nil {
		t.Fatalf("expected nil for no aggregates, got %v", none)
	}
}

func TestRankingNamesDomainsApart(t *testing.T) {
	aggs := []model.ItemAggregate{
		{Domain: "kana/hiragana/reverse", Item: "ka", Correct: 4, Wrong: 0},
		{Domain: "kana/katakana/reverse", Item: "ka", Correct: 1, Wrong: 3},
	}
	weak := SelectWeakItems(aggs, 1)
	if len(weak) != 1 || weak[0] != model.ItemName("kana/katakana/reverse", "ka") {
		t.Fatalf("unexpected weak items: %v", weak)
	}
	top := TopItemsByFrequency(aggs, 5)
	if len(top) != 2 || top[0] == top[1] {
		t.Fatalf("expected two distinct names, got %v", top)
	}
}
