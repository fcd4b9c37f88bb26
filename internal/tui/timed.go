package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidrill/internal/drill"
)

const (
	clockBarWidth = 30
	urgentAfter   = 10 * time.Second
)

type tickMsg time.Time

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// handleTick ends the session once the countdown runs out and otherwise
// schedules the next tick.
func (m *Model) handleTick() tea.Cmd {
	if m.countdown == nil || m.finished {
		return nil
	}
	if m.countdown.Expired() {
		m.finish()
		return nil
	}
	return tickCmd()
}

func (m *Model) finish() {
	m.finished = true
	m.input.Blur()
	m.saveSession()
}

func (m *Model) renderClock() string {
	remaining := m.countdown.Remaining()
	style := clockStyle
	if remaining <= urgentAfter {
		style = urgentStyle
	}
	lines := []string{
		style.Render(drill.FormatClock(remaining)),
		progressBar(m.countdown.Progress(), clockBarWidth),
	}
	if goals := m.countdown.Goals(); len(goals) > 0 {
		if next, progress, ok := m.countdown.NextGoal(); ok {
			lines = append(lines, footerStyle.Render(fmt.Sprintf("Goal %s  %d%%  (%d/%d)",
				drill.FormatClock(next), int(progress*100), m.countdown.Reached(), len(goals))))
		} else {
			lines = append(lines, footerStyle.Render(fmt.Sprintf("All %d goals reached", len(goals))))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	lines := []string{
		promptStyle.Render("Time's up"),
		"",
		fmt.Sprintf("Score     %d", m.tracker.Score),
		fmt.Sprintf("Correct   %d", m.tracker.Correct),
		fmt.Sprintf("Wrong     %d", m.tracker.Wrong),
		fmt.Sprintf("Best      %d", m.tracker.BestStreak),
		fmt.Sprintf("Accuracy  %.1f%%", m.tracker.Accuracy()*100),
	}
	if goals := m.countdown.Goals(); len(goals) > 0 {
		lines = append(lines, fmt.Sprintf("Goals     %d/%d", m.countdown.Reached(), len(goals)))
	}
	lines = append(lines, "", footerStyle.Render("enter or esc to quit"))
	return strings.Join(lines, "\n")
}

// progressBar draws a filled bar of width cells for a share from 0 to 1.
func progressBar(share float64, width int) string {
	filled := int(share * float64(width))
	filled = max(0, min(filled, width))
	return barFillStyle.Render(strings.Repeat(" ", filled)) +
		barEmptyStyle.Render(strings.Repeat(" ", width-filled))
}
