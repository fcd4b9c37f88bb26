package adaptive

import (
	"errors"
	"testing"
)

func TestDomainsDoNotShareWeights(t *testing.T) {
	e := newTestEngine(t, 1)
	kana := e.Domain("kana")
	vocab := e.Domain("vocab")

	kana.UpdateWeight("ka", false)
	if got := vocab.Weight("ka"); got != e.Policy().DefaultWeight {
		t.Fatalf("expected vocab weight untouched, got %v", got)
	}
	if got := e.Weight("ka"); got != e.Policy().DefaultWeight {
		t.Fatalf("expected default domain weight untouched, got %v", got)
	}
	if kana.Weight("ka") <= e.Policy().DefaultWeight {
		t.Fatalf("expected kana weight to rise, got %v", kana.Weight("ka"))
	}
}

func TestSelectorsOnSameDomainShareWeights(t *testing.T) {
	e := newTestEngine(t, 1)
	quiz := e.Domain("kana")
	builder := e.Domain("kana")

	quiz.UpdateWeight("あ", false)
	if got, want := builder.Weight("あ"), quiz.Weight("あ"); got != want {
		t.Fatalf("expected shared weight %v, got %v", want, got)
	}
	builder.MarkSeen("あ")
	if got := quiz.SeenCount("あ"); got != 1 {
		t.Fatalf("expected shared seen count 1, got %d", got)
	}
}

func TestDrawMarksSeen(t *testing.T) {
	e := newTestEngine(t, 2)
	sel := e.Domain("kanji")
	d, err := sel.Draw([]string{"日", "月"}, "")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if d.Domain != "kanji" {
		t.Fatalf("unexpected draw domain %q", d.Domain)
	}
	if got := sel.SeenCount(d.Item); got != 1 {
		t.Fatalf("expected seen count 1, got %d", got)
	}
	if d.Committed() {
		t.Fatalf("fresh draw reported committed")
	}
}

func TestCommitAppliesOnce(t *testing.T) {
	e := newTestEngine(t, 2)
	sel := e.Domain("kana")
	d, err := sel.Draw([]string{"ka"}, "")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := sel.Commit(d, false); err != nil {
		t.Fatalf("commit: %v", err)
	}
	after := sel.Weight("ka")
	if err := sel.Commit(d, false); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("expected ErrAlreadyCommitted, got %v", err)
	}
	if got := sel.Weight("ka"); got != after {
		t.Fatalf("second commit changed weight: %v -> %v", after, got)
	}
	if !d.Committed() {
		t.Fatalf("expected draw to report committed")
	}
}

func TestCommitRejectsForeignDraw(t *testing.T) {
	e := newTestEngine(t, 2)
	kana := e.Domain("kana")
	kanji := e.Domain("kanji")
	d, err := kana.Draw([]string{"ka"}, "")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := kanji.Commit(d, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := kana.Commit(Draw{}, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero draw, got %v", err)
	}
	if err := kana.Commit(d, true); err != nil {
		t.Fatalf("commit in own domain: %v", err)
	}
}

func TestCommitRejectsDrawFromOtherEngine(t *testing.T) {
	a := newTestEngine(t, 3)
	b := newTestEngine(t, 4)
	d, err := a.Domain("kana").Draw([]string{"ka"}, "")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := b.Domain("kana").Commit(d, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if got := b.Domain("kana").Weight("ka"); got != b.Policy().DefaultWeight {
		t.Fatalf("foreign commit changed weight to %v", got)
	}
	if d.Committed() {
		t.Fatalf("rejected commit marked the draw")
	}
	if err := a.Domain("kana").Commit(d, false); err != nil {
		t.Fatalf("commit on own engine: %v", err)
	}
}

func TestDrawEmptyPool(t *testing.T) {
	e := newTestEngine(t, 2)
	if _, err := e.Domain("kana").Draw(nil, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if e.Len() != 0 {
		t.Fatalf("failed draw created records")
	}
}
