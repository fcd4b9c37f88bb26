// Package adaptive picks the next practice item by weighted random sampling
// over per-item difficulty weights.
//
// An Engine is created once by the program and handed to every drill. Items
// are keyed by domain and identifier, so drills that share an identifier space
// share weights while unrelated sets (glyphs, meanings, vocabulary) do not
// bleed into each other. Weights live in memory for the life of the process.
package adaptive

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Key identifies an item within a domain.
type Key struct {
	Domain string
	Item   string
}

// Record is the difficulty state of one item.
type Record struct {
	Weight    float64
	SeenCount int
	Correct   int
	Wrong     int
}

// Entry pairs a key with its record.
type Entry struct {
	Key
	Record
}

// Engine owns the weight map shared by all drills.
type Engine struct {
	mu      sync.Mutex
	policy  Policy
	rnd     *rand.Rand
	logger  *slog.Logger
	records map[Key]*Record
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for draws.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) {
		if rnd != nil {
			e.rnd = rnd
		}
	}
}

// WithLogger sets the logger used for weight updates.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Engine using the given policy.
func New(policy Policy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		policy:  policy,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  slog.New(slog.DiscardHandler),
		records: map[Key]*Record{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the engine's reinforcement policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// SelectWeighted draws one item from pool in the default domain, skipping
// avoid unless it is the only candidate.
func (e *Engine) SelectWeighted(pool []string, avoid string) (string, error) {
	return e.selectWeighted("", pool, avoid)
}

// MarkSeen counts one presentation of item in the default domain.
func (e *Engine) MarkSeen(item string) {
	e.markSeen(Key{Item: item})
}

// UpdateWeight applies an answer outcome to item in the default domain.
func (e *Engine) UpdateWeight(item string, correct bool) {
	e.updateWeight(Key{Item: item}, correct)
}

// Record returns the state of item in the default domain.
func (e *Engine) Record(item string) (Record, bool) {
	return e.record(Key{Item: item})
}

// Weight returns the current weight of item, or the default weight if the
// item has never been referenced.
func (e *Engine) Weight(item string) float64 {
	rec, ok := e.Record(item)
	if !ok {
		return e.policy.DefaultWeight
	}
	return rec.Weight
}

// SeenCount returns how many times item was presented.
func (e *Engine) SeenCount(item string) int {
	rec, _ := e.Record(item)
	return rec.SeenCount
}

// Len returns the number of tracked items across all domains.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Snapshot returns a copy of every record, highest weight first.
func (e *Engine) Snapshot() []Entry {
	e.mu.Lock()
	entries := make([]Entry, 0, len(e.records))
	for key, rec := range e.records {
		entries = append(entries, Entry{Key: key, Record: *rec})
	}
	e.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		if entries[i].Domain != entries[j].Domain {
			return entries[i].Domain < entries[j].Domain
		}
		return entries[i].Item < entries[j].Item
	})
	return entries
}

func (e *Engine) selectWeighted(domain string, pool []string, avoid string) (string, error) {
	if len(pool) == 0 {
		return "", fmt.Errorf("select from empty pool: %w", ErrInvalidArgument)
	}
	candidates := candidateSet(pool, avoid)

	e.mu.Lock()
	defer e.mu.Unlock()

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, item := range candidates {
		w := e.policy.DefaultWeight
		if rec, ok := e.records[Key{Domain: domain, Item: item}]; ok {
			w = rec.Weight
		}
		weights[i] = w
		total += w
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return candidates[e.rnd.Intn(len(candidates))], nil
	}

	r := e.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return candidates[i], nil
		}
	}
	// Rounding can leave r just above the accumulated sum.
	return candidates[len(candidates)-1], nil
}

func (e *Engine) markSeen(key Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entry(key).SeenCount++
}

func (e *Engine) updateWeight(key Key, correct bool) {
	e.mu.Lock()
	rec := e.entry(key)
	prev := rec.Weight
	rec.Weight = e.policy.next(rec.Weight, correct)
	if correct {
		rec.Correct++
	} else {
		rec.Wrong++
	}
	weight := rec.Weight
	e.mu.Unlock()

	e.logger.Debug("weight updated",
		"domain", key.Domain,
		"item", key.Item,
		"correct", correct,
		"from", prev,
		"to", weight,
	)
}

func (e *Engine) record(key Key) (Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// entry returns the record for key, creating it if needed. Callers hold mu.
func (e *Engine) entry(key Key) *Record {
	rec, ok := e.records[key]
	if !ok {
		rec = &Record{Weight: e.policy.DefaultWeight}
		e.records[key] = rec
	}
	return rec
}

// candidateSet returns the distinct items of pool in order, dropping avoid
// unless nothing else is left.
func candidateSet(pool []string, avoid string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	skipped := false
	for _, item := range pool {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		if avoid != "" && item == avoid {
			skipped = true
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 && skipped {
		return []string{avoid}
	}
	return out
}
