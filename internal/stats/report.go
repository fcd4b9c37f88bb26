package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/tuidrill/internal/model"
	"github.com/verte-zerg/tuidrill/internal/store"
)

const defaultWeakTop = 8

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	ItemAggsAll      []model.ItemAggregate
	ItemAggsWindow   []model.ItemAggregate
	Weak             []string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	itemAggsAll, err := st.ListItemAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	itemAggsWindow, err := st.ListItemAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	weakTop := cfg.WeakTop
	if weakTop <= 0 {
		weakTop = defaultWeakTop
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		ItemAggsAll:      itemAggsAll,
		ItemAggsWindow:   itemAggsWindow,
		Weak:             SelectWeakItems(itemAggsWindow, weakTop),
	}, nil
}

// Render writes the full plain-text report.
func (r Report) Render(w io.Writer, cfg model.StatsConfig, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	if len(r.Weak) > 0 {
		if _, err := fmt.Fprintf(w, "Weakest: %s\n\n", strings.Join(r.Weak, " ")); err != nil {
			return err
		}
	}
	return RenderItemTable(w, r.ItemAggsWindow)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
