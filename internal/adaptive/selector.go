package adaptive

import "fmt"

// Selector is a view of an Engine restricted to one domain.
type Selector struct {
	engine *Engine
	domain string
}

// Draw is an item drawn by Selector.Draw. Its outcome is applied once with
// Selector.Commit.
type Draw struct {
	Item   string
	Domain string
	state  *drawState
}

type drawState struct {
	engine    *Engine
	committed bool
}

// Domain returns a Selector whose keys are tagged with name.
func (e *Engine) Domain(name string) *Selector {
	return &Selector{engine: e, domain: name}
}

// Name returns the selector's domain.
func (s *Selector) Name() string {
	return s.domain
}

// Engine returns the engine backing the selector.
func (s *Selector) Engine() *Engine {
	return s.engine
}

// SelectWeighted draws one item from pool, skipping avoid unless it is the
// only candidate. It does not change any state.
func (s *Selector) SelectWeighted(pool []string, avoid string) (string, error) {
	return s.engine.selectWeighted(s.domain, pool, avoid)
}

// MarkSeen counts one presentation of item.
func (s *Selector) MarkSeen(item string) {
	s.engine.markSeen(s.key(item))
}

// UpdateWeight scales the weight of item down after a correct answer and up
// after a wrong one.
func (s *Selector) UpdateWeight(item string, correct bool) {
	s.engine.updateWeight(s.key(item), correct)
}

// Record returns the state of item.
func (s *Selector) Record(item string) (Record, bool) {
	return s.engine.record(s.key(item))
}

// Weight returns the current weight of item.
func (s *Selector) Weight(item string) float64 {
	rec, ok := s.Record(item)
	if !ok {
		return s.engine.policy.DefaultWeight
	}
	return rec.Weight
}

// SeenCount returns how many times item was presented.
func (s *Selector) SeenCount(item string) int {
	rec, _ := s.Record(item)
	return rec.SeenCount
}

// Draw selects an item and marks it seen in one step.
func (s *Selector) Draw(pool []string, avoid string) (Draw, error) {
	item, err := s.SelectWeighted(pool, avoid)
	if err != nil {
		return Draw{}, err
	}
	s.MarkSeen(item)
	return Draw{Item: item, Domain: s.domain, state: &drawState{engine: s.engine}}, nil
}

// Commit applies the answer outcome for d. Each draw can be committed once.
func (s *Selector) Commit(d Draw, correct bool) error {
	if d.state == nil {
		return fmt.Errorf("commit of zero draw: %w", ErrInvalidArgument)
	}
	if d.state.engine != s.engine {
		return fmt.Errorf("commit %q: draw belongs to another engine: %w", d.Item, ErrInvalidArgument)
	}
	if d.Domain != s.domain {
		return fmt.Errorf("commit of %q draw in domain %q: %w", d.Domain, s.domain, ErrInvalidArgument)
	}
	s.engine.mu.Lock()
	if d.state.committed {
		s.engine.mu.Unlock()
		return fmt.Errorf("commit %q: %w", d.Item, ErrAlreadyCommitted)
	}
	d.state.committed = true
	s.engine.mu.Unlock()

	s.UpdateWeight(d.Item, correct)
	return nil
}

// Committed reports whether d has been committed.
func (d Draw) Committed() bool {
	return d.state != nil && d.state.committed
}

func (s *Selector) key(item string) Key {
	return Key{Domain: s.domain, Item: item}
}
