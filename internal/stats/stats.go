// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes answers per minute and accuracy for a session.
func SessionMetrics(correct, wrong int, durationMs int64) (apm, accuracy float64) {
	den := float64(correct + wrong)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	apm = den / minutes
	return apm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAPM, totalAcc float64
	bestScore := 0
	bestStreak := 0
	answers := 0
	for _, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		totalAPM += apm
		totalAcc += acc
		answers += s.Correct + s.Wrong
		if s.Score > bestScore {
			bestScore = s.Score
		}
		if s.BestStreak > bestStreak {
			bestStreak = s.BestStreak
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Answers: %d", answers),
		fmt.Sprintf("Avg Answers/min: %.2f", totalAPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Best Score: %d", bestScore),
		fmt.Sprintf("Best Streak: %d", bestStreak),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints moving-average sparklines of accuracy and pace. A
// positive width keeps only the most recent width sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	apms := make([]float64, len(sessions))
	for i, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		accs[i] = acc * 100
		apms[i] = apm
	}
	accs = tail(MovingAverage(accs, window), width)
	apms = tail(MovingAverage(apms, window), width)

	headers := []string{"Curve", "Trend", "First", "Last"}
	rows := [][]string{
		{"Accuracy", Sparkline(accs), fmt.Sprintf("%.1f%%", accs[0]), fmt.Sprintf("%.1f%%", accs[len(accs)-1])},
		{"Answers/min", Sparkline(apms), fmt.Sprintf("%.1f", apms[0]), fmt.Sprintf("%.1f", apms[len(apms)-1])},
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	if err := (textTable{headers: headers, rows: rows, right: []int{2, 3}}).write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderItemTable prints per-item aggregates, lowest accuracy first.
func RenderItemTable(w io.Writer, aggs []model.ItemAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No item stats found.")
		return err
	}
	rows := itemRows(aggs)
	if _, err := fmt.Fprintln(w, "Per-Item"); err != nil {
		return err
	}
	headers := []string{"Item", "Accuracy", "Avg Latency (ms)", "Correct", "Wrong"}
	if err := (textTable{headers: headers, rows: rows, right: []int{1, 2, 3, 4}}).write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ItemTableRows returns the rows of RenderItemTable for table widgets.
func ItemTableRows(aggs []model.ItemAggregate) [][]string {
	return itemRows(aggs)
}

func itemRows(aggs []model.ItemAggregate) [][]string {
	type row struct {
		item    string
		acc     float64
		latency float64
		correct int
		wrong   int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			item:    agg.Name(),
			acc:     itemAccuracy(agg),
			latency: lat,
			correct: agg.Correct,
			wrong:   agg.Wrong,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].item < rows[j].item
		}
		return rows[i].acc < rows[j].acc
	})
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.item,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.wrong),
		})
	}
	return out
}

// RenderWeights prints the selection engine's records, highest weight first.
// At most limit rows are printed when limit is positive.
func RenderWeights(w io.Writer, entries []adaptive.Entry, limit int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No items drawn yet.")
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	headers := []string{"Item", "Domain", "Weight", "Seen", "Correct", "Wrong"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Item,
			e.Domain,
			fmt.Sprintf("%.2f", e.Weight),
			fmt.Sprintf("%d", e.SeenCount),
			fmt.Sprintf("%d", e.Correct),
			fmt.Sprintf("%d", e.Wrong),
		})
	}
	return textTable{headers: headers, rows: rows, right: []int{2, 3, 4, 5}}.write(w)
}

func itemAccuracy(agg model.ItemAggregate) float64 {
	total := agg.Correct + agg.Wrong
	if total == 0 {
		return 0
	}
	return float64(agg.Correct) / float64(total)
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// RenderItemCurves prints one accuracy sparkline per selected item across
// sessions. Sessions where an item was not answered carry the previous value.
func RenderItemCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.ItemAggregate, items []string, window, width int) error {
	if len(sessions) == 0 || len(items) == 0 {
		return nil
	}
	headers := []string{"Item", "Trend", "Answers", "Last"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		values := make([]float64, 0, len(sessions))
		answers := 0
		prev := 0.0
		seen := false
		for _, s := range sessions {
			agg, ok := perSession[s.SessionID][item]
			if ok && agg.Correct+agg.Wrong > 0 {
				prev = itemAccuracy(agg) * 100
				answers += agg.Correct + agg.Wrong
				seen = true
			}
			if seen {
				values = append(values, prev)
			}
		}
		if len(values) == 0 {
			rows = append(rows, []string{item, "", "0", "-"})
			continue
		}
		values = tail(MovingAverage(values, window), width)
		rows = append(rows, []string{
			item,
			Sparkline(values),
			fmt.Sprintf("%d", answers),
			fmt.Sprintf("%.1f%%", values[len(values)-1]),
		})
	}
	return textTable{headers: headers, rows: rows, right: []int{2, 3}}.write(w)
}
