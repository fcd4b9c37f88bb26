package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidrill/internal/drill"
)

// handlePickKey chooses an option with the digit keys. Only the first choice
// of a prompt is scored.
func (m *Model) handlePickKey(msg tea.KeyMsg) {
	if msg.Type != tea.KeyRunes || m.pick.Solved() {
		return
	}
	for _, r := range msg.Runes {
		if r < '1' || r > '9' {
			continue
		}
		m.choose(int(r - '1'))
		return
	}
}

func (m *Model) choose(idx int) {
	firstAnswer := !m.pick.Answered()
	res, err := m.pick.Choose(idx)
	if errors.Is(err, drill.ErrNoSuchOption) || errors.Is(err, drill.ErrOptionRuledOut) {
		return
	}
	if err != nil {
		m.logger.Error("choose failed", "err", err)
		m.status = err.Error()
		return
	}
	if firstAnswer {
		m.tracker.Record(res, 1)
	}
	m.last = res
	if res.Correct {
		if m.countdown != nil {
			m.nextPick()
			m.status = "correct"
			return
		}
		m.state = stateCorrect
		m.status = "correct · enter to continue"
		return
	}
	m.state = stateWrong
	m.status = "wrong · try again"
}

func (m *Model) nextPick() {
	if err := m.pick.Next(); err != nil {
		m.logger.Error("draw failed", "err", err)
		m.status = err.Error()
		return
	}
	m.resetPrompt()
}

func (m *Model) renderPick() string {
	c := m.pick.Current()
	lines := []string{promptStyle.Render(c.Item), ""}
	for i, option := range c.Options {
		line := fmt.Sprintf("%d) %s", i+1, option)
		switch {
		case m.pick.RuledOut(i):
			line = usedTileStyle.Render(line)
		case m.pick.Solved() && option == c.Expected:
			line = placedStyle.Render(line)
		default:
			line = optionStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", footerStyle.Render(fmt.Sprintf("select 1-%d", len(c.Options))))
	return strings.Join(lines, "\n")
}
