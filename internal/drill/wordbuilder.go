package drill

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/deck"
)

const maxDistractors = 3

// Word is one word-building round.
type Word struct {
	Items   []string
	Answers []string
	Tiles   []string
}

// WordBuilder is the drill where a word of several items is rebuilt from
// shuffled answer tiles.
type WordBuilder struct {
	sel     *adaptive.Selector
	pool    deck.Pool
	reverse bool
	length  int
	rnd     *rand.Rand

	word    Word
	checked bool
	last    Result
}

// NewWordBuilder starts a word-building drill and builds the first word.
func NewWordBuilder(sel *adaptive.Selector, pool deck.Pool, reverse bool, length int, rnd *rand.Rand) (*WordBuilder, error) {
	if length <= 0 {
		return nil, fmt.Errorf("word length must be > 0")
	}
	if pool.Len() < length {
		return nil, fmt.Errorf("%d items for words of %d: %w", pool.Len(), length, ErrPoolTooSmall)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &WordBuilder{sel: sel, pool: pool, reverse: reverse, length: length, rnd: rnd}
	if err := b.Next(); err != nil {
		return nil, err
	}
	return b, nil
}

// Current returns the word being built.
func (b *WordBuilder) Current() Word {
	return b.word
}

// Pool returns the drill's item pool.
func (b *WordBuilder) Pool() deck.Pool {
	return b.pool
}

// Checked reports whether the current word has been graded.
func (b *WordBuilder) Checked() bool {
	return b.checked
}

// Next builds a new word. Each item is drawn by weight from the items not yet
// in the word and marked seen.
func (b *WordBuilder) Next() error {
	source, other := b.sides()

	items := make([]string, 0, b.length)
	used := map[string]struct{}{}
	for i := 0; i < b.length; i++ {
		available := make([]string, 0, len(source))
		for _, item := range source {
			if _, ok := used[item]; !ok {
				available = append(available, item)
			}
		}
		if len(available) == 0 {
			break
		}
		item, err := b.sel.SelectWeighted(available, "")
		if err != nil {
			return err
		}
		b.sel.MarkSeen(item)
		used[item] = struct{}{}
		items = append(items, item)
	}

	answers := make([]string, len(items))
	for i, item := range items {
		answers[i] = b.answerFor(item)
	}

	tiles := append([]string(nil), answers...)
	taken := map[string]struct{}{}
	for _, a := range answers {
		taken[a] = struct{}{}
	}
	distractors := maxDistractors
	if n := len(source) - b.length; n < distractors {
		distractors = n
	}
	for i := 0; i < distractors; i++ {
		available := make([]string, 0, len(other))
		for _, candidate := range other {
			if _, ok := taken[candidate]; !ok {
				available = append(available, candidate)
			}
		}
		if len(available) == 0 {
			break
		}
		pick := available[b.rnd.Intn(len(available))]
		taken[pick] = struct{}{}
		tiles = append(tiles, pick)
	}
	b.rnd.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})

	b.word = Word{Items: items, Answers: answers, Tiles: tiles}
	b.checked = false
	b.last = Result{}
	return nil
}

// Check grades the placed tiles. Every item in the word is updated with the
// outcome. Checking the same word again returns the first result unchanged.
func (b *WordBuilder) Check(placed []string) Result {
	if b.checked {
		return b.last
	}
	correct := len(placed) == len(b.word.Answers)
	if correct {
		for i, tile := range placed {
			if tile != b.word.Answers[i] {
				correct = false
				break
			}
		}
	}
	for _, item := range b.word.Items {
		b.sel.UpdateWeight(item, correct)
	}
	b.checked = true
	b.last = Result{
		Correct:  correct,
		Expected: strings.Join(b.word.Answers, ""),
		Items:    append([]string(nil), b.word.Items...),
	}
	return b.last
}

func (b *WordBuilder) sides() (source, other []string) {
	if b.reverse {
		return b.pool.Answers(), b.pool.Prompts()
	}
	return b.pool.Prompts(), b.pool.Answers()
}

func (b *WordBuilder) answerFor(item string) string {
	if b.reverse {
		return b.pool.PromptFor(item)
	}
	return b.pool.AnswerFor(item)
}
