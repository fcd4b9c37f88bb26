package drill

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/deck"
)

// PickOptions is the number of options offered per prompt.
const PickOptions = 3

// Choice is the prompt of a pick round and its shuffled options.
type Choice struct {
	Item     string
	Expected string
	Options  []string
}

// Pick is the multiple-choice drill: one weighted prompt, the right answer
// and uniformly drawn distractors from the other side of the pool.
type Pick struct {
	sel     *adaptive.Selector
	pool    deck.Pool
	reverse bool
	rnd     *rand.Rand
	items   []string
	others  []string

	draw     adaptive.Draw
	options  []string
	ruledOut map[int]bool
	answered bool
	solved   bool
}

// NewPick starts a pick drill over pool and draws the first prompt.
func NewPick(sel *adaptive.Selector, pool deck.Pool, reverse bool, rnd *rand.Rand) (*Pick, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &Pick{sel: sel, pool: pool, reverse: reverse, rnd: rnd}
	if reverse {
		p.items, p.others = pool.Answers(), pool.Prompts()
	} else {
		p.items, p.others = pool.Prompts(), pool.Answers()
	}
	if err := p.advance(""); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the prompt being asked.
func (p *Pick) Current() Choice {
	return Choice{
		Item:     p.draw.Item,
		Expected: p.expected(),
		Options:  append([]string(nil), p.options...),
	}
}

// RuledOut reports whether option i was already chosen and was wrong.
func (p *Pick) RuledOut(i int) bool {
	return p.ruledOut[i]
}

// Answered reports whether the current prompt has been graded.
func (p *Pick) Answered() bool {
	return p.answered
}

// Solved reports whether the right option was chosen.
func (p *Pick) Solved() bool {
	return p.solved
}

// Choose grades option i. The first choice commits the weight update; a wrong
// option is ruled out and the prompt stays open.
func (p *Pick) Choose(i int) (Result, error) {
	if i < 0 || i >= len(p.options) {
		return Result{}, fmt.Errorf("option %d of %d: %w", i+1, len(p.options), ErrNoSuchOption)
	}
	if p.ruledOut[i] {
		return Result{}, fmt.Errorf("option %d: %w", i+1, ErrOptionRuledOut)
	}
	correct := p.accepts(p.options[i])
	if !p.answered {
		p.answered = true
		if err := p.sel.Commit(p.draw, correct); err != nil {
			return Result{}, err
		}
	}
	if correct {
		p.solved = true
	} else {
		p.ruledOut[i] = true
	}
	return Result{Correct: correct, Expected: p.expected(), Items: []string{p.draw.Item}}, nil
}

// Next draws a new prompt, avoiding the current one when possible.
func (p *Pick) Next() error {
	return p.advance(p.draw.Item)
}

func (p *Pick) advance(avoid string) error {
	d, err := p.sel.Draw(p.items, avoid)
	if err != nil {
		return err
	}
	p.draw = d
	p.answered = false
	p.solved = false
	p.ruledOut = map[int]bool{}

	expected := p.expected()
	options := []string{expected}
	taken := map[string]struct{}{expected: {}}
	for len(options) < PickOptions {
		available := make([]string, 0, len(p.others))
		for _, candidate := range p.others {
			if _, ok := taken[candidate]; !ok {
				available = append(available, candidate)
			}
		}
		if len(available) == 0 {
			break
		}
		pick := available[p.rnd.Intn(len(available))]
		taken[pick] = struct{}{}
		options = append(options, pick)
	}
	p.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	p.options = options
	return nil
}

func (p *Pick) expected() string {
	if p.reverse {
		return p.pool.PromptFor(p.draw.Item)
	}
	return p.pool.AnswerFor(p.draw.Item)
}

func (p *Pick) accepts(option string) bool {
	if option == p.expected() {
		return true
	}
	if p.reverse {
		return p.pool.AnswerFor(option) == p.draw.Item
	}
	return false
}
