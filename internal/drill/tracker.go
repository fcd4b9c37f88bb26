package drill

import (
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tuidrill/internal/model"
)

const historySize = 20

type itemStat struct {
	correct      int
	wrong        int
	latencySumMs int64
	latencyCount int64
}

// Tracker keeps score, streaks and per-item answers for one session. It knows
// nothing about weights.
type Tracker struct {
	now func() time.Time

	startedAt   time.Time
	presentedAt time.Time

	Score       int
	Correct     int
	Wrong       int
	Streak      int
	BestStreak  int
	WrongStreak int

	history []string
	items   map[string]*itemStat
}

// NewTracker returns a tracker using now as its clock.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{now: now, items: map[string]*itemStat{}}
	t.startedAt = now()
	t.presentedAt = t.startedAt
	return t
}

// Presented marks the moment a new prompt was shown.
func (t *Tracker) Presented() {
	t.presentedAt = t.now()
}

// Record applies a graded answer. points is the score for a correct answer;
// a wrong answer costs one point, never going below zero.
func (t *Tracker) Record(res Result, points int) {
	now := t.now()
	if res.Correct {
		t.Score += points
		t.Correct++
		t.Streak++
		t.WrongStreak = 0
		if t.Streak > t.BestStreak {
			t.BestStreak = t.Streak
		}
		latency := now.Sub(t.presentedAt).Milliseconds()
		for _, item := range res.Items {
			entry := t.entry(item)
			entry.correct++
			entry.latencySumMs += latency
			entry.latencyCount++
			t.pushHistory(item)
		}
		return
	}
	if t.Score > 0 {
		t.Score--
	}
	t.Wrong++
	t.Streak = 0
	t.WrongStreak++
	for _, item := range res.Items {
		t.entry(item).wrong++
	}
}

// Accuracy returns the share of correct answers.
func (t *Tracker) Accuracy() float64 {
	total := t.Correct + t.Wrong
	if total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(total)
}

// Answered reports whether any answer was recorded.
func (t *Tracker) Answered() bool {
	return t.Correct+t.Wrong > 0
}

// History returns recently answered items, most recent last.
func (t *Tracker) History() []string {
	return append([]string(nil), t.history...)
}

// ItemStats returns per-item answers sorted by item, tagged with the engine
// domain the items were drawn from.
func (t *Tracker) ItemStats(domain string) []model.ItemStats {
	out := make([]model.ItemStats, 0, len(t.items))
	for item, entry := range t.items {
		out = append(out, model.ItemStats{
			Domain:       domain,
			Item:         item,
			Correct:      entry.correct,
			Wrong:        entry.wrong,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Item < out[j].Item
	})
	return out
}

// Session summarizes the tracker as a stored session.
func (t *Tracker) Session(cfg model.Config) model.SessionStats {
	endedAt := t.now()
	return model.SessionStats{
		StartedAt:  t.startedAt,
		EndedAt:    endedAt,
		Mode:       cfg.Mode,
		Deck:       cfg.Deck,
		Groups:     strings.Join(cfg.Groups, ","),
		Reverse:    cfg.Reverse,
		Correct:    t.Correct,
		Wrong:      t.Wrong,
		Score:      t.Score,
		BestStreak: t.BestStreak,
		DurationMs: endedAt.Sub(t.startedAt).Milliseconds(),
	}
}

func (t *Tracker) entry(item string) *itemStat {
	entry, ok := t.items[item]
	if !ok {
		entry = &itemStat{}
		t.items[item] = entry
	}
	return entry
}

func (t *Tracker) pushHistory(item string) {
	t.history = append(t.history, item)
	if len(t.history) > historySize {
		t.history = t.history[len(t.history)-historySize:]
	}
}
