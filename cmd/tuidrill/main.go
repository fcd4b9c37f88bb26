// Package main provides the CLI entrypoint for tuidrill.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/config"
	"github.com/verte-zerg/tuidrill/internal/deck"
	"github.com/verte-zerg/tuidrill/internal/drill"
	"github.com/verte-zerg/tuidrill/internal/logging"
	"github.com/verte-zerg/tuidrill/internal/model"
	"github.com/verte-zerg/tuidrill/internal/stats"
	"github.com/verte-zerg/tuidrill/internal/statsui"
	"github.com/verte-zerg/tuidrill/internal/store"
	"github.com/verte-zerg/tuidrill/internal/tui"
)

const (
	defaultMode        = "kana"
	defaultWordLength  = 3
	maxWordLength      = 6
	defaultLogLevel    = "info"
	defaultCurveWindow = 20
	defaultWeakTop     = 8
)

var (
	practiceMode          string
	practiceDeck          string
	practiceGroups        []string
	practiceReverse       bool
	practiceWordLength    int
	practiceDuration      time.Duration
	practiceGoals         []time.Duration
	practiceCorrectFactor float64
	practiceWrongFactor   float64
	practiceMinWeight     float64
	practiceMaxWeight     float64
	practiceLogLevel      string

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuidrill",
		Short:         "TUI drill for kana, kanji and vocabulary",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	policy := adaptive.DefaultPolicy()
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "drill mode (kana, kanji, vocab, words, pick)")
	rootCmd.Flags().StringVar(&practiceDeck, "deck", "", "deck name (default depends on mode)")
	rootCmd.Flags().StringSliceVar(&practiceGroups, "groups", nil, "deck groups to drill, comma separated (default: all)")
	rootCmd.Flags().BoolVar(&practiceReverse, "reverse", false, "show answers and ask for the prompt")
	rootCmd.Flags().IntVar(&practiceWordLength, "word-length", defaultWordLength, "items per word in word building")
	rootCmd.Flags().DurationVar(&practiceDuration, "duration", 0, "timed session length, e.g. 2m (default: untimed)")
	rootCmd.Flags().DurationSliceVar(&practiceGoals, "goals", nil, "goal marks within a timed session, e.g. 30s,1m")
	rootCmd.Flags().Float64Var(&practiceCorrectFactor, "correct-factor", policy.CorrectFactor, "weight multiplier after a correct answer")
	rootCmd.Flags().Float64Var(&practiceWrongFactor, "wrong-factor", policy.WrongFactor, "weight multiplier after a wrong answer")
	rootCmd.Flags().Float64Var(&practiceMinWeight, "min-weight", policy.MinWeight, "lowest item weight")
	rootCmd.Flags().Float64Var(&practiceMaxWeight, "max-weight", policy.MaxWeight, "highest item weight")
	rootCmd.Flags().StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, policy, err := resolvePractice(cmd, fileCfg)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(practiceLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	d, err := deck.Resolve(cfg.Deck, config.DefaultDeckDir())
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	pool, err := d.Select(cfg.Groups)
	if err != nil {
		if errors.Is(err, deck.ErrEmptyPool) {
			return fmt.Errorf("deck %s has no items in the selected groups", d.Name)
		}
		return err
	}

	logger, logFile, err := logging.OpenFile(config.DefaultLogPath(), level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	engine, err := adaptive.New(policy, adaptive.WithLogger(logger))
	if err != nil {
		return err
	}
	domain := drill.Domain(d, cfg.Reverse)
	logger.Info("practice started",
		"mode", cfg.Mode,
		"duration", cfg.Duration,
		"deck", d.Name,
		"domain", domain,
		"items", pool.Len(),
	)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(tui.Options{
		Config:   cfg,
		Store:    st,
		Engine:   engine,
		Selector: engine.Domain(domain),
		Pool:     pool,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePractice merges the config file into unset flags and validates the
// result.
func resolvePractice(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, adaptive.Policy, error) {
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "deck", &practiceDeck, fileCfg.Practice.Deck)
	applyStringSliceConfig(cmd, "groups", &practiceGroups, fileCfg.Practice.Groups)
	applyBoolConfig(cmd, "reverse", &practiceReverse, fileCfg.Practice.Reverse)
	applyIntConfig(cmd, "word-length", &practiceWordLength, fileCfg.Practice.WordLength)
	if err := applyDurationConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration); err != nil {
		return model.Config{}, adaptive.Policy{}, err
	}
	if err := applyDurationSliceConfig(cmd, "goals", &practiceGoals, fileCfg.Practice.Goals); err != nil {
		return model.Config{}, adaptive.Policy{}, err
	}
	applyFloatConfig(cmd, "correct-factor", &practiceCorrectFactor, fileCfg.Adaptive.CorrectFactor)
	applyFloatConfig(cmd, "wrong-factor", &practiceWrongFactor, fileCfg.Adaptive.WrongFactor)
	applyFloatConfig(cmd, "min-weight", &practiceMinWeight, fileCfg.Adaptive.MinWeight)
	applyFloatConfig(cmd, "max-weight", &practiceMaxWeight, fileCfg.Adaptive.MaxWeight)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)

	mode, err := drill.ParseMode(practiceMode)
	if err != nil {
		return model.Config{}, adaptive.Policy{}, err
	}
	deckName := strings.TrimSpace(practiceDeck)
	if deckName == "" {
		deckName = mode.DefaultDeck()
	}
	cfg := model.Config{
		Mode:       string(mode),
		Deck:       deckName,
		Groups:     cleanGroups(practiceGroups),
		Reverse:    practiceReverse,
		WordLength: practiceWordLength,
		Duration:   practiceDuration,
		Goals:      append([]time.Duration(nil), practiceGoals...),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, adaptive.Policy{}, err
	}

	policy := adaptive.DefaultPolicy()
	if fileCfg.Adaptive.DefaultWeight != nil {
		policy.DefaultWeight = *fileCfg.Adaptive.DefaultWeight
	}
	policy.CorrectFactor = practiceCorrectFactor
	policy.WrongFactor = practiceWrongFactor
	policy.MinWeight = practiceMinWeight
	policy.MaxWeight = practiceMaxWeight
	if err := policy.Validate(); err != nil {
		return model.Config{}, adaptive.Policy{}, err
	}
	return cfg, policy, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List available decks and their groups",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultDeckDir()
	names, err := deck.List(dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		d, err := deck.Resolve(name, dir)
		if err != nil {
			logErrf("skipping deck %s: %v\n", name, err)
			continue
		}
		line := fmt.Sprintf("%s (%s): %s", d.Name, d.Domain, strings.Join(d.GroupNames(), ", "))
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weakest items to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if !stats.IsTerminal(os.Stdout) {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg, max(10, stats.TerminalWidth()-40))
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	mode := strings.TrimSpace(statsMode)
	if mode != "" {
		parsed, err := drill.ParseMode(mode)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("--mode: %w", err)
		}
		mode = string(parsed)
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Mode:        mode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakTop:     statsWeakTop,
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func applyDurationSliceConfig(cmd *cobra.Command, name string, target *[]time.Duration, value *[]string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	out := make([]time.Duration, 0, len(*value))
	for _, raw := range *value {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid %s in config: %w", name, err)
		}
		out = append(out, d)
	}
	*target = out
	return nil
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func cleanGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

func defaultConfigTemplate() string {
	policy := adaptive.DefaultPolicy()
	return fmt.Sprintf(`# tuidrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q            # Drill mode: kana, kanji, vocab, words, pick
# deck = "hiragana"        # Deck name (default depends on mode)
# groups = ["a", "ka"]     # Deck groups to drill (default: all)
# reverse = false          # Show answers and ask for the prompt
# word-length = %d          # Items per word in word building (1-%d)
# duration = "2m"          # Timed session length (default: untimed)
# goals = ["30s", "1m"]    # Goal marks within a timed session

[adaptive]
# default-weight = %.1f    # Weight of an item never answered
# min-weight = %.1f        # Lowest item weight
# max-weight = %.1f       # Highest item weight
# correct-factor = %.1f    # Weight multiplier after a correct answer
# wrong-factor = %.1f      # Weight multiplier after a wrong answer

[log]
# level = %q           # debug, info, warn, error
`,
		defaultMode,
		defaultWordLength,
		maxWordLength,
		policy.DefaultWeight,
		policy.MinWeight,
		policy.MaxWeight,
		policy.CorrectFactor,
		policy.WrongFactor,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.WordLength < 1 || cfg.WordLength > maxWordLength {
		return fmt.Errorf("--word-length must be between 1 and %d", maxWordLength)
	}
	if cfg.Deck == "" {
		return fmt.Errorf("--deck must not be empty")
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("--duration must not be negative")
	}
	if len(cfg.Goals) > 0 && cfg.Duration == 0 {
		return fmt.Errorf("--goals needs a timed session (--duration)")
	}
	for _, g := range cfg.Goals {
		if g <= 0 || g > cfg.Duration {
			return fmt.Errorf("goal %s must lie within the %s session", g, cfg.Duration)
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
