package deck

import "strings"

// Pool is the set of items enabled for a drill.
type Pool struct {
	items []Item
}

// NewPool builds a pool from items.
func NewPool(items []Item) Pool {
	return Pool{items: append([]Item(nil), items...)}
}

// Len returns the number of items.
func (p Pool) Len() int {
	return len(p.items)
}

// Items returns a copy of the pool's items.
func (p Pool) Items() []Item {
	return append([]Item(nil), p.items...)
}

// Prompts returns every prompt in pool order.
func (p Pool) Prompts() []string {
	out := make([]string, len(p.items))
	for i, it := range p.items {
		out[i] = it.Prompt
	}
	return out
}

// Answers returns every answer in pool order.
func (p Pool) Answers() []string {
	out := make([]string, len(p.items))
	for i, it := range p.items {
		out[i] = it.Answer
	}
	return out
}

// Lookup returns the item with the given prompt.
func (p Pool) Lookup(prompt string) (Item, bool) {
	for _, it := range p.items {
		if it.Prompt == prompt {
			return it, true
		}
	}
	return Item{}, false
}

// AnswerFor returns the answer of the item with the given prompt.
func (p Pool) AnswerFor(prompt string) string {
	it, _ := p.Lookup(prompt)
	return it.Answer
}

// PromptFor returns the prompt of the first item with the given answer.
func (p Pool) PromptFor(answer string) string {
	for _, it := range p.items {
		if it.Answer == answer {
			return it.Prompt
		}
	}
	return ""
}

// Accepts reports whether input answers the item. Matching ignores case and
// surrounding space, and the prompt itself is accepted too.
func (it Item) Accepts(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if input == it.Prompt || strings.EqualFold(input, it.Answer) {
		return true
	}
	for _, alt := range it.Alt {
		if strings.EqualFold(input, alt) {
			return true
		}
	}
	return false
}
