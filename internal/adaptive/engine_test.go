package adaptive

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := New(DefaultPolicy(), WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestUpdateWeightStaysBounded(t *testing.T) {
	e := newTestEngine(t, 1)
	p := e.Policy()
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		e.UpdateWeight("x", rnd.Intn(3) == 0)
		w := e.Weight("x")
		if w < p.MinWeight || w > p.MaxWeight {
			t.Fatalf("weight %v out of bounds after %d updates", w, i+1)
		}
	}
}

func TestCorrectAnswersLowerWeightToFloor(t *testing.T) {
	e := newTestEngine(t, 1)
	p := e.Policy()
	prev := e.Weight("a")
	for i := 0; i < 50; i++ {
		e.UpdateWeight("a", true)
		w := e.Weight("a")
		if w > prev {
			t.Fatalf("weight increased after correct answer: %v -> %v", prev, w)
		}
		if w == prev && w != p.MinWeight {
			t.Fatalf("weight stalled above floor at %v", w)
		}
		prev = w
	}
	if prev != p.MinWeight {
		t.Fatalf("expected weight to reach floor %v, got %v", p.MinWeight, prev)
	}
}

func TestWrongAnswersRaiseWeightToCeiling(t *testing.T) {
	e := newTestEngine(t, 1)
	p := e.Policy()
	prev := e.Weight("a")
	for i := 0; i < 50; i++ {
		e.UpdateWeight("a", false)
		w := e.Weight("a")
		if w < prev {
			t.Fatalf("weight decreased after wrong answer: %v -> %v", prev, w)
		}
		if w == prev && w != p.MaxWeight {
			t.Fatalf("weight stalled below ceiling at %v", w)
		}
		prev = w
	}
	if prev != p.MaxWeight {
		t.Fatalf("expected weight to reach ceiling %v, got %v", p.MaxWeight, prev)
	}
}

func TestSelectWeightedAvoidsRepeat(t *testing.T) {
	e := newTestEngine(t, 3)
	pool := []string{"a", "b", "c"}
	for _, avoid := range pool {
		for i := 0; i < 200; i++ {
			got, err := e.SelectWeighted(pool, avoid)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if got == avoid {
				t.Fatalf("selected avoided item %q", avoid)
			}
		}
	}

	for i := 0; i < 100; i++ {
		got, err := e.SelectWeighted([]string{"x", "y"}, "x")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got != "y" {
			t.Fatalf("expected y, got %q", got)
		}
	}
}

func TestSelectWeightedSingleCandidate(t *testing.T) {
	e := newTestEngine(t, 3)
	got, err := e.SelectWeighted([]string{"x"}, "x")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "x" {
		t.Fatalf("expected x, got %q", got)
	}

	got, err = e.SelectWeighted([]string{"x", "x"}, "x")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "x" {
		t.Fatalf("expected x from duplicate pool, got %q", got)
	}
}

func TestSelectWeightedEmptyPool(t *testing.T) {
	e := newTestEngine(t, 3)
	_, err := e.SelectWeighted(nil, "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	_, err = e.SelectWeighted([]string{}, "a")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if e.Len() != 0 {
		t.Fatalf("expected no records after failed select, got %d", e.Len())
	}
}

func TestSelectWeightedDoesNotMutate(t *testing.T) {
	e := newTestEngine(t, 3)
	for i := 0; i < 10; i++ {
		if _, err := e.SelectWeighted([]string{"a", "b"}, ""); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if e.Len() != 0 {
		t.Fatalf("select created %d records", e.Len())
	}
}

func TestSelectWeightedFollowsWeightRatio(t *testing.T) {
	e := newTestEngine(t, 11)
	for i := 0; i < 20; i++ {
		e.UpdateWeight("heavy", false)
		e.UpdateWeight("light", true)
	}
	p := e.Policy()
	want := p.MaxWeight / (p.MaxWeight + p.MinWeight)

	const draws = 20000
	heavy := 0
	for i := 0; i < draws; i++ {
		got, err := e.SelectWeighted([]string{"heavy", "light"}, "")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got == "heavy" {
			heavy++
		}
	}
	frac := float64(heavy) / draws
	if math.Abs(frac-want) > 0.01 {
		t.Fatalf("expected heavy fraction near %.4f, got %.4f", want, frac)
	}
}

func TestSelectWeightedCountsDuplicatesOnce(t *testing.T) {
	e := newTestEngine(t, 13)
	const draws = 20000
	a := 0
	for i := 0; i < draws; i++ {
		got, err := e.SelectWeighted([]string{"A", "A", "B"}, "")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got == "A" {
			a++
		}
	}
	if frac := float64(a) / draws; math.Abs(frac-0.5) > 0.02 {
		t.Fatalf("expected A fraction near 0.5, got %.4f", frac)
	}

	for i := 0; i < 50; i++ {
		got, err := e.SelectWeighted([]string{"A", "A", "B"}, "A")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got != "B" {
			t.Fatalf("expected avoid to drop every copy of A, got %q", got)
		}
	}
	got, err := e.SelectWeighted([]string{"A", "A"}, "A")
	if err != nil || got != "A" {
		t.Fatalf("expected lone duplicate to be returned, got %q %v", got, err)
	}
}

func TestWrongAnswersBiasDraws(t *testing.T) {
	e := newTestEngine(t, 5)
	for i := 0; i < 3; i++ {
		e.UpdateWeight("A", false)
	}
	counts := map[string]int{}
	const draws = 10000
	for i := 0; i < draws; i++ {
		got, err := e.SelectWeighted([]string{"A", "B", "C"}, "")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		counts[got]++
	}
	if counts["A"] <= counts["B"] || counts["A"] <= counts["C"] {
		t.Fatalf("expected A to dominate, got %v", counts)
	}
	if frac := float64(counts["A"]) / draws; frac < 0.5 {
		t.Fatalf("expected A fraction well above 1/3, got %.3f", frac)
	}
}

func TestSelectWeightedDegenerateFallsBackToUniform(t *testing.T) {
	e := newTestEngine(t, 9)
	e.records[Key{Item: "a"}] = &Record{Weight: math.Inf(1)}
	e.records[Key{Item: "b"}] = &Record{Weight: 1}
	seen := map[string]int{}
	for i := 0; i < 1000; i++ {
		got, err := e.SelectWeighted([]string{"a", "b"}, "")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		seen[got]++
	}
	if seen["a"] == 0 || seen["b"] == 0 {
		t.Fatalf("expected uniform fallback to draw both items, got %v", seen)
	}

	e.records[Key{Item: "a"}] = &Record{Weight: 0}
	e.records[Key{Item: "b"}] = &Record{Weight: 0}
	got, err := e.SelectWeighted([]string{"a", "b"}, "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "a" && got != "b" {
		t.Fatalf("unexpected item %q", got)
	}
}

func TestMarkSeenCounts(t *testing.T) {
	e := newTestEngine(t, 1)
	for i := 0; i < 4; i++ {
		e.MarkSeen("x")
	}
	if got := e.SeenCount("x"); got != 4 {
		t.Fatalf("expected seen count 4, got %d", got)
	}
	if got := e.Weight("x"); got != e.Policy().DefaultWeight {
		t.Fatalf("expected default weight, got %v", got)
	}
	if got := e.SeenCount("never"); got != 0 {
		t.Fatalf("expected 0 for unknown item, got %d", got)
	}
}

func TestUpdateWeightCreatesRecord(t *testing.T) {
	e := newTestEngine(t, 1)
	e.UpdateWeight("fresh", false)
	rec, ok := e.Record("fresh")
	if !ok {
		t.Fatalf("expected record to be created")
	}
	if rec.SeenCount != 0 || rec.Wrong != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if want := e.Policy().DefaultWeight * e.Policy().WrongFactor; rec.Weight != want {
		t.Fatalf("expected weight %v, got %v", want, rec.Weight)
	}
}

func TestSnapshotOrdersByWeight(t *testing.T) {
	e := newTestEngine(t, 1)
	e.UpdateWeight("easy", true)
	e.MarkSeen("plain")
	e.UpdateWeight("hard", false)
	entries := e.Snapshot()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Item != "hard" || entries[1].Item != "plain" || entries[2].Item != "easy" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	bad := []Policy{
		{DefaultWeight: 1, MinWeight: 0, MaxWeight: 10, CorrectFactor: 0.8, WrongFactor: 1.5},
		{DefaultWeight: 1, MinWeight: 0.1, MaxWeight: math.Inf(1), CorrectFactor: 0.8, WrongFactor: 1.5},
		{DefaultWeight: 20, MinWeight: 0.1, MaxWeight: 10, CorrectFactor: 0.8, WrongFactor: 1.5},
		{DefaultWeight: 1, MinWeight: 0.1, MaxWeight: 10, CorrectFactor: 1, WrongFactor: 1.5},
		{DefaultWeight: 1, MinWeight: 0.1, MaxWeight: 10, CorrectFactor: 0.8, WrongFactor: 1},
		{DefaultWeight: 1, MinWeight: 2, MaxWeight: 1, CorrectFactor: 0.8, WrongFactor: 1.5},
	}
	for i, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPolicy) {
			t.Fatalf("case %d: expected ErrInvalidPolicy, got %v", i, err)
		}
		if _, err := New(p); err == nil {
			t.Fatalf("case %d: expected New to reject policy", i)
		}
	}
}
