// Package drill implements the practice drills on top of the adaptive
// selection engine.
package drill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuidrill/internal/deck"
)

// Mode names a drill type.
type Mode string

// Drill modes.
const (
	ModeKana  Mode = "kana"
	ModeKanji Mode = "kanji"
	ModeVocab Mode = "vocab"
	ModeWords Mode = "words"
	ModePick  Mode = "pick"
)

// Errors returned by drills.
var (
	ErrBlankAnswer    = errors.New("answer is blank")
	ErrPoolTooSmall   = errors.New("pool is smaller than the word length")
	ErrNoSuchOption   = errors.New("no such option")
	ErrOptionRuledOut = errors.New("option already ruled out")
	ErrBadDuration    = errors.New("invalid duration")
)

// Modes lists every drill mode.
func Modes() []Mode {
	return []Mode{ModeKana, ModeKanji, ModeVocab, ModeWords, ModePick}
}

// ParseMode parses a mode name.
func ParseMode(name string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	names := make([]string, 0, len(Modes()))
	for _, known := range Modes() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown mode %q (available: %s)", name, strings.Join(names, ", "))
}

// DefaultDeck returns the deck used by a mode when none is configured.
func (m Mode) DefaultDeck() string {
	switch m {
	case ModeKanji:
		return "kanji"
	case ModeVocab:
		return "vocab"
	default:
		return "hiragana"
	}
}

// Domain returns the engine domain for drilling d. Forward drills over decks
// that share a domain share weights. Reverse drills show answers as prompts,
// which are not unique across decks, so each deck gets its own domain.
func Domain(d *deck.Deck, reverse bool) string {
	if reverse {
		return d.Domain + "/" + d.Name + "/reverse"
	}
	return d.Domain
}

// Result is the outcome of checking an answer.
type Result struct {
	Correct  bool
	Expected string
	Items    []string
}
