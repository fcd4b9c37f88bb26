// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/deck"
	"github.com/verte-zerg/tuidrill/internal/drill"
	"github.com/verte-zerg/tuidrill/internal/model"
	statsPkg "github.com/verte-zerg/tuidrill/internal/stats"
	"github.com/verte-zerg/tuidrill/internal/store"
)

type drillKind int

const (
	kindQuiz drillKind = iota
	kindPick
	kindWords
)

type answerState int

const (
	stateAsking answerState = iota
	stateCorrect
	stateWrong
)

const weightPanelRows = 12

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	placedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	tileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	usedTileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	urgentStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	clockStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	barFillStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#C89A3A"))
	barEmptyStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#4A4A4A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
)

// Options holds the collaborators of the drill UI.
type Options struct {
	Config   model.Config
	Store    *store.Store
	Engine   *adaptive.Engine
	Selector *adaptive.Selector
	Pool     deck.Pool
	Logger   *slog.Logger
	Rand     *rand.Rand
	// Now is the clock for answer latency and the countdown. Defaults to
	// time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	config  model.Config
	store   *store.Store
	engine  *adaptive.Engine
	sel     *adaptive.Selector
	pool    deck.Pool
	logger  *slog.Logger
	rnd     *rand.Rand
	tracker *drill.Tracker

	quiz  *drill.Quiz
	pick  *drill.Pick
	words *drill.WordBuilder
	kind  drillKind

	countdown *drill.Countdown
	finished  bool

	input  textinput.Model
	state  answerState
	last   drill.Result
	placed []int
	status string

	showWeights bool
	saved       bool

	width  int
	height int
}

// NewModel constructs the drill UI and draws the first prompt. The words mode
// starts in the word-building drill.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	quiz, err := drill.NewQuiz(opts.Selector, opts.Pool, opts.Config.Reverse)
	if err != nil {
		return nil, fmt.Errorf("failed to start quiz: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "answer"
	input.CharLimit = 64
	input.Width = 24
	input.Focus()

	m := &Model{
		config:  opts.Config,
		store:   opts.Store,
		engine:  opts.Engine,
		sel:     opts.Selector,
		pool:    opts.Pool,
		logger:  logger,
		rnd:     opts.Rand,
		tracker: drill.NewTracker(opts.Now),
		quiz:    quiz,
		input:   input,
	}
	switch drill.Mode(opts.Config.Mode) {
	case drill.ModeWords:
		if err := m.startWords(); err != nil {
			return nil, err
		}
	case drill.ModePick:
		if err := m.startPick(); err != nil {
			return nil, err
		}
	}
	if opts.Config.Duration > 0 {
		countdown, err := drill.NewCountdown(opts.Config.Duration, opts.Config.Goals, opts.Now)
		if err != nil {
			return nil, err
		}
		m.countdown = countdown
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.countdown != nil {
		return tea.Batch(textinput.Blink, tickCmd())
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick()
	case tea.KeyMsg:
		if m.finished {
			switch msg.Type {
			case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.saveSession()
			return m, tea.Quit
		case tea.KeyTab:
			m.showWeights = !m.showWeights
			return m, nil
		case tea.KeyCtrlT:
			m.toggleDrill()
			return m, nil
		case tea.KeyCtrlS:
			m.skip()
			return m, nil
		case tea.KeyEnter:
			m.handleEnter()
			return m, nil
		}
		switch m.kind {
		case kindWords:
			m.handleWordKey(msg)
			return m, nil
		case kindPick:
			m.handlePickKey(msg)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return m.place(m.renderSummary())
	}
	var content string
	switch m.kind {
	case kindWords:
		content = m.renderWords()
	case kindPick:
		content = m.renderPick()
	default:
		content = m.renderQuiz()
	}
	if m.countdown != nil {
		content = m.renderClock() + "\n\n" + content
	}
	if m.status != "" {
		content += "\n\n" + footerStyle.Render(m.status)
	}
	if m.showWeights {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "   ", m.renderWeights())
	}
	return m.place(content)
}

func (m *Model) place(content string) string {
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleEnter() {
	switch m.kind {
	case kindWords:
		m.checkWord()
		return
	case kindPick:
		if m.pick.Solved() {
			m.nextPick()
		}
		return
	}
	if m.state == stateCorrect {
		m.nextPrompt()
		return
	}
	firstAnswer := !m.quiz.Answered()
	res, err := m.quiz.Check(m.input.Value())
	if errors.Is(err, drill.ErrBlankAnswer) {
		return
	}
	if err != nil {
		m.logger.Error("check failed", "err", err)
		m.status = err.Error()
		return
	}
	if firstAnswer {
		m.tracker.Record(res, 1)
	}
	m.last = res
	m.input.Reset()
	if res.Correct {
		if m.countdown != nil {
			m.nextPrompt()
			m.status = "correct"
			return
		}
		m.state = stateCorrect
		m.status = "correct · enter to continue"
		return
	}
	m.state = stateWrong
	m.status = fmt.Sprintf("wrong · answer: %s · try again", res.Expected)
}

func (m *Model) nextPrompt() {
	if err := m.quiz.Next(); err != nil {
		m.logger.Error("draw failed", "err", err)
		m.status = err.Error()
		return
	}
	m.resetPrompt()
}

func (m *Model) checkWord() {
	if m.words.Checked() {
		m.nextWord()
		return
	}
	word := m.words.Current()
	if len(m.placed) < len(word.Answers) {
		m.status = fmt.Sprintf("place %d more tile(s)", len(word.Answers)-len(m.placed))
		return
	}
	placed := make([]string, len(m.placed))
	for i, idx := range m.placed {
		placed[i] = word.Tiles[idx]
	}
	res := m.words.Check(placed)
	m.tracker.Record(res, len(word.Items))
	m.last = res
	if res.Correct {
		m.state = stateCorrect
		m.status = "correct · enter to continue"
		return
	}
	m.state = stateWrong
	m.status = fmt.Sprintf("wrong · answer: %s · enter to continue", res.Expected)
}

func (m *Model) nextWord() {
	if err := m.words.Next(); err != nil {
		m.logger.Error("word build failed", "err", err)
		m.status = err.Error()
		return
	}
	m.resetPrompt()
}

func (m *Model) handleWordKey(msg tea.KeyMsg) {
	if m.words.Checked() {
		return
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.placed) > 0 {
			m.placed = m.placed[:len(m.placed)-1]
		}
	case tea.KeyRunes:
		word := m.words.Current()
		for _, r := range msg.Runes {
			if r < '1' || r > '9' {
				continue
			}
			idx := int(r - '1')
			if idx >= len(word.Tiles) || len(m.placed) >= len(word.Answers) || m.isPlaced(idx) {
				continue
			}
			m.placed = append(m.placed, idx)
		}
	}
}

func (m *Model) isPlaced(idx int) bool {
	for _, p := range m.placed {
		if p == idx {
			return true
		}
	}
	return false
}

// skip moves on without grading. A skipped prompt keeps its weight.
func (m *Model) skip() {
	switch m.kind {
	case kindWords:
		m.nextWord()
	case kindPick:
		m.nextPick()
	default:
		m.nextPrompt()
	}
}

// toggleDrill cycles quiz, pick and word building over the same selector. A
// drill that cannot start leaves the current one running with a notice.
func (m *Model) toggleDrill() {
	var err error
	switch m.kind {
	case kindQuiz:
		err = m.startPick()
	case kindPick:
		err = m.startWords()
	default:
		m.kind = kindQuiz
		m.input.Focus()
		m.nextPrompt()
	}
	if err != nil {
		m.status = err.Error()
	}
}

func (m *Model) startWords() error {
	if m.words == nil {
		length := m.config.WordLength
		if length <= 0 {
			length = 3
		}
		words, err := drill.NewWordBuilder(m.sel, m.pool, m.config.Reverse, length, m.rnd)
		if err != nil {
			return fmt.Errorf("failed to start word building: %w", err)
		}
		m.words = words
	} else if err := m.words.Next(); err != nil {
		return err
	}
	m.kind = kindWords
	m.input.Blur()
	m.resetPrompt()
	return nil
}

func (m *Model) startPick() error {
	if m.pick == nil {
		pick, err := drill.NewPick(m.sel, m.pool, m.config.Reverse, m.rnd)
		if err != nil {
			return fmt.Errorf("failed to start pick: %w", err)
		}
		m.pick = pick
	} else if err := m.pick.Next(); err != nil {
		return err
	}
	m.kind = kindPick
	m.input.Blur()
	m.resetPrompt()
	return nil
}

func (m *Model) resetPrompt() {
	m.state = stateAsking
	m.last = drill.Result{}
	m.placed = nil
	m.status = ""
	m.input.Reset()
	m.tracker.Presented()
}

func (m *Model) renderQuiz() string {
	p := m.quiz.Current()
	hint := "type the reading"
	if m.config.Reverse {
		hint = "type the glyph"
	}
	lines := []string{
		promptStyle.Render(p.Item),
		"",
		m.input.View(),
		footerStyle.Render(hint),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderWords() string {
	word := m.words.Current()
	width := 0
	if m.width > 0 {
		width = int(float64(m.width) * 0.70)
		if width < 1 {
			width = 1
		}
	}
	prompt := strings.Join(word.Items, "")
	lines := []string{
		promptStyle.Render(prompt),
		"",
		renderTiles(buildSlots(word.Tiles, m.placed, word.Answers, m.words.Checked())),
		"",
		wrapTiles(buildTiles(word.Tiles, m.placed), width),
		footerStyle.Render("digits place tiles · backspace removes · enter checks"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderWeights() string {
	var b strings.Builder
	b.WriteString("Weights\n")
	if err := statsPkg.RenderWeights(&b, m.engine.Snapshot(), weightPanelRows); err != nil {
		m.logger.Warn("render weights failed", "err", err)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%s · %s", m.config.Deck, m.drillName()),
		fmt.Sprintf("Score %d", m.tracker.Score),
		fmt.Sprintf("Streak %d", m.tracker.Streak),
		fmt.Sprintf("Best %d", m.tracker.BestStreak),
		fmt.Sprintf("Accuracy %.1f%%", m.tracker.Accuracy()*100),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) drillName() string {
	switch m.kind {
	case kindWords:
		return "words"
	case kindPick:
		return "pick"
	}
	if m.config.Reverse {
		return "reverse"
	}
	return "quiz"
}

func (m *Model) saveSession() {
	if m.saved || m.store == nil || !m.tracker.Answered() {
		return
	}
	m.saved = true
	session := m.tracker.Session(m.config)
	id, err := m.store.InsertSession(context.Background(), session, m.tracker.ItemStats(m.sel.Name()))
	if err != nil {
		m.logger.Error("failed to save session", "err", err)
		return
	}
	m.logger.Info("session saved",
		"id", id,
		"correct", session.Correct,
		"wrong", session.Wrong,
		"score", session.Score,
	)
}
