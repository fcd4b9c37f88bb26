package drill

import (
	"strings"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/deck"
)

// Prompt is the item currently asked.
type Prompt struct {
	Item     string
	Expected string
}

// Quiz is the type-the-answer drill used for kana, kanji and vocabulary.
type Quiz struct {
	sel      *adaptive.Selector
	pool     deck.Pool
	reverse  bool
	items    []string
	draw     adaptive.Draw
	answered bool
}

// NewQuiz starts a quiz over pool and draws the first prompt. In reverse mode
// answers are shown and the prompt must be typed.
func NewQuiz(sel *adaptive.Selector, pool deck.Pool, reverse bool) (*Quiz, error) {
	q := &Quiz{sel: sel, pool: pool, reverse: reverse}
	if reverse {
		q.items = pool.Answers()
	} else {
		q.items = pool.Prompts()
	}
	if err := q.advance(""); err != nil {
		return nil, err
	}
	return q, nil
}

// Current returns the prompt being asked.
func (q *Quiz) Current() Prompt {
	return Prompt{Item: q.draw.Item, Expected: q.expected()}
}

// Reverse reports whether the quiz shows answers as prompts.
func (q *Quiz) Reverse() bool {
	return q.reverse
}

// Pool returns the quiz's item pool.
func (q *Quiz) Pool() deck.Pool {
	return q.pool
}

// Check grades input against the current prompt. The first answer to a prompt
// updates the item's weight. A wrong answer keeps the prompt so it can be
// retried.
func (q *Quiz) Check(input string) (Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{}, ErrBlankAnswer
	}
	correct := q.accepts(input)
	if !q.answered {
		q.answered = true
		if err := q.sel.Commit(q.draw, correct); err != nil {
			return Result{}, err
		}
	}
	return Result{Correct: correct, Expected: q.expected(), Items: []string{q.draw.Item}}, nil
}

// Answered reports whether the current prompt has been graded.
func (q *Quiz) Answered() bool {
	return q.answered
}

// Next draws a new prompt, avoiding the current one when possible.
func (q *Quiz) Next() error {
	return q.advance(q.draw.Item)
}

func (q *Quiz) advance(avoid string) error {
	d, err := q.sel.Draw(q.items, avoid)
	if err != nil {
		return err
	}
	q.draw = d
	q.answered = false
	return nil
}

func (q *Quiz) expected() string {
	if q.reverse {
		return q.pool.PromptFor(q.draw.Item)
	}
	return q.pool.AnswerFor(q.draw.Item)
}

func (q *Quiz) accepts(input string) bool {
	if q.reverse {
		for _, it := range q.pool.Items() {
			if it.Answer == q.draw.Item && it.Prompt == input {
				return true
			}
		}
		return false
	}
	item, ok := q.pool.Lookup(q.draw.Item)
	return ok && item.Accepts(input)
}
