// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Config defines practice settings.
type Config struct {
	Mode       string
	Deck       string
	Groups     []string
	Reverse    bool
	WordLength int
	Duration   time.Duration
	Goals      []time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
}

// SessionStats captures a completed drill session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	Deck       string
	Groups     string
	Reverse    bool
	Correct    int
	Wrong      int
	Score      int
	BestStreak int
	DurationMs int64
}

// ItemStats stores per-item answers for a session.
type ItemStats struct {
	Domain       string
	Item         string
	Correct      int
	Wrong        int
	LatencySumMs int64
	LatencyCount int64
}

// ItemAggregate aggregates item stats across sessions.
type ItemAggregate struct {
	Domain       string
	Item         string
	Correct      int
	Wrong        int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Mode       string
	Correct    int
	Wrong      int
	Score      int
	BestStreak int
	DurationMs int64
}

// Name returns the label of the aggregate in stats output.
func (a ItemAggregate) Name() string {
	return ItemName(a.Domain, a.Item)
}

// ItemName labels an item for stats. Items of a shared domain read as
// themselves. Items of a per-deck domain carry the domain, so the same
// reading drilled on two decks stays two rows.
func ItemName(domain, item string) string {
	if !strings.Contains(domain, "/") {
		return item
	}
	return item + " (" + domain + ")"
}
