package drill

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/deck"
)

func optionIndex(c Choice, want bool) int {
	for i, option := range c.Options {
		if (option == c.Expected) == want {
			return i
		}
	}
	return -1
}

func TestPickBuildsDistinctOptions(t *testing.T) {
	sel := testSelector(t, "kana")
	p, err := NewPick(sel, testPool(), false, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("new pick: %v", err)
	}
	for i := 0; i < 30; i++ {
		c := p.Current()
		if len(c.Options) != PickOptions {
			t.Fatalf("expected %d options, got %v", PickOptions, c.Options)
		}
		seen := map[string]bool{}
		hits := 0
		for _, option := range c.Options {
			if seen[option] {
				t.Fatalf("duplicate option %q in %v", option, c.Options)
			}
			seen[option] = true
			if option == c.Expected {
				hits++
			}
		}
		if hits != 1 || c.Expected != testPool().AnswerFor(c.Item) {
			t.Fatalf("expected answer %q once in %v", c.Expected, c.Options)
		}
		prev := c.Item
		if err := p.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
		if p.Current().Item == prev {
			t.Fatalf("prompt %q repeated back-to-back", prev)
		}
	}
}

func TestPickWrongChoiceRulesOutOption(t *testing.T) {
	sel := testSelector(t, "kana")
	p, err := NewPick(sel, testPool(), false, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("new pick: %v", err)
	}
	c := p.Current()
	if sel.SeenCount(c.Item) != 1 {
		t.Fatalf("expected prompt to be marked seen")
	}

	wrong := optionIndex(c, false)
	res, err := p.Choose(wrong)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if res.Correct || !p.Answered() || p.Solved() || !p.RuledOut(wrong) {
		t.Fatalf("unexpected state after wrong choice: %+v", res)
	}
	raised := sel.Weight(c.Item)
	if raised <= 1 {
		t.Fatalf("expected weight to rise, got %v", raised)
	}
	if _, err := p.Choose(wrong); !errors.Is(err, ErrOptionRuledOut) {
		t.Fatalf("expected ErrOptionRuledOut, got %v", err)
	}

	res, err = p.Choose(optionIndex(c, true))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !res.Correct || !p.Solved() {
		t.Fatalf("expected right option to solve the prompt")
	}
	if got := sel.Weight(c.Item); got != raised {
		t.Fatalf("second choice changed weight: %v -> %v", raised, got)
	}

	if _, err := p.Choose(PickOptions); !errors.Is(err, ErrNoSuchOption) {
		t.Fatalf("expected ErrNoSuchOption, got %v", err)
	}
	if err := p.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if p.Answered() || p.Solved() || p.RuledOut(wrong) {
		t.Fatalf("new prompt should start open")
	}
}

func TestPickReverse(t *testing.T) {
	sel := testSelector(t, "kana/hiragana/reverse")
	p, err := NewPick(sel, testPool(), true, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new pick: %v", err)
	}
	c := p.Current()
	if c.Expected != testPool().PromptFor(c.Item) {
		t.Fatalf("unexpected expected glyph %q for %q", c.Expected, c.Item)
	}
	res, err := p.Choose(optionIndex(c, true))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !res.Correct {
		t.Fatalf("expected glyph to be accepted")
	}
	if sel.Weight(c.Item) >= 1 {
		t.Fatalf("expected weight to drop after correct choice")
	}
}

func TestPickSmallPool(t *testing.T) {
	sel := testSelector(t, "kana")
	pool := deck.NewPool([]deck.Item{{Prompt: "ん", Answer: "n"}, {Prompt: "を", Answer: "wo"}})
	p, err := NewPick(sel, pool, false, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("new pick: %v", err)
	}
	if got := len(p.Current().Options); got != 2 {
		t.Fatalf("expected 2 options from a 2-item pool, got %d", got)
	}
	if _, err := NewPick(sel, deck.NewPool(nil), false, nil); !errors.Is(err, adaptive.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
