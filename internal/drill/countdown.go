package drill

import (
	"fmt"
	"sort"
	"time"
)

// Countdown is the clock of a timed session. Goals are elapsed-time marks
// inside the session shown as intermediate targets.
type Countdown struct {
	now      func() time.Time
	start    time.Time
	duration time.Duration
	goals    []time.Duration
}

// NewCountdown starts a countdown of duration. Goals must lie inside the
// session; duplicates are dropped.
func NewCountdown(duration time.Duration, goals []time.Duration, now func() time.Time) (*Countdown, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("session length %s: %w", duration, ErrBadDuration)
	}
	if now == nil {
		now = time.Now
	}
	sorted := make([]time.Duration, 0, len(goals))
	seen := map[time.Duration]bool{}
	for _, g := range goals {
		if g <= 0 || g > duration {
			return nil, fmt.Errorf("goal %s outside a %s session: %w", g, duration, ErrBadDuration)
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &Countdown{now: now, start: now(), duration: duration, goals: sorted}, nil
}

// Duration returns the session length.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}

// Elapsed returns the time spent, capped at the session length.
func (c *Countdown) Elapsed() time.Duration {
	elapsed := c.now().Sub(c.start)
	if elapsed < 0 {
		return 0
	}
	if elapsed > c.duration {
		return c.duration
	}
	return elapsed
}

// Remaining returns the time left, never below zero.
func (c *Countdown) Remaining() time.Duration {
	return c.duration - c.Elapsed()
}

// Expired reports whether the session is over.
func (c *Countdown) Expired() bool {
	return c.Remaining() <= 0
}

// Progress returns the share of the session spent, from 0 to 1.
func (c *Countdown) Progress() float64 {
	return float64(c.Elapsed()) / float64(c.duration)
}

// Goals returns the goal marks, earliest first.
func (c *Countdown) Goals() []time.Duration {
	return append([]time.Duration(nil), c.goals...)
}

// Reached returns how many goals have been passed.
func (c *Countdown) Reached() int {
	elapsed := c.Elapsed()
	n := 0
	for _, g := range c.goals {
		if elapsed >= g {
			n++
		}
	}
	return n
}

// NextGoal returns the first goal not yet reached and the progress towards
// it from the previous goal.
func (c *Countdown) NextGoal() (time.Duration, float64, bool) {
	reached := c.Reached()
	if reached == len(c.goals) {
		return 0, 0, false
	}
	var from time.Duration
	if reached > 0 {
		from = c.goals[reached-1]
	}
	next := c.goals[reached]
	return next, float64(c.Elapsed()-from) / float64(next-from), true
}

// FormatClock renders d as m:ss, rounding partial seconds up so a running
// clock never shows 0:00 early.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
