package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuidrill/internal/adaptive"
	"github.com/verte-zerg/tuidrill/internal/config"
	"github.com/verte-zerg/tuidrill/internal/model"
)

func TestResolvePracticeDefaults(t *testing.T) {
	cmd := newRootCmd()
	cfg, policy, err := resolvePractice(cmd, config.FileConfig{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Mode != "kana" || cfg.Deck != "hiragana" || cfg.WordLength != defaultWordLength {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Groups) != 0 {
		t.Fatalf("expected all groups by default, got %v", cfg.Groups)
	}
	if policy != adaptive.DefaultPolicy() {
		t.Fatalf("unexpected policy: %+v", policy)
	}
}

func TestResolvePracticeFlagsOverrideFile(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("mode", "kanji"); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := cmd.Flags().Set("groups", "a,ka"); err != nil {
		t.Fatalf("set groups: %v", err)
	}
	fileMode := "vocab"
	fileGroups := []string{"animals"}
	fileWrong := 2.0
	fileDefault := 2.5
	cfg, policy, err := resolvePractice(cmd, config.FileConfig{
		Practice: config.PracticeConfig{Mode: &fileMode, Groups: &fileGroups},
		Adaptive: config.AdaptiveConfig{WrongFactor: &fileWrong, DefaultWeight: &fileDefault},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Mode != "kanji" || cfg.Deck != "kanji" {
		t.Fatalf("expected flag mode to win, got %+v", cfg)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[0] != "a" || cfg.Groups[1] != "ka" {
		t.Fatalf("expected flag groups to win, got %v", cfg.Groups)
	}
	if policy.WrongFactor != 2.0 || policy.DefaultWeight != 2.5 {
		t.Fatalf("expected file policy values, got %+v", policy)
	}
}

func TestResolvePracticeRejectsInvalid(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("mode", "math"); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if _, _, err := resolvePractice(cmd, config.FileConfig{}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}

	cmd = newRootCmd()
	if err := cmd.Flags().Set("correct-factor", "1.2"); err != nil {
		t.Fatalf("set factor: %v", err)
	}
	if _, _, err := resolvePractice(cmd, config.FileConfig{}); !errors.Is(err, adaptive.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Mode: "kana", Deck: "hiragana", WordLength: 3}
	if err := validateConfig(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := base
	bad.WordLength = maxWordLength + 1
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected error for long words")
	}
	bad = base
	bad.WordLength = 0
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected error for zero word length")
	}
	bad = base
	bad.Goals = []time.Duration{time.Minute}
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected error for goals without a duration")
	}
	bad.Duration = 30 * time.Second
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected error for a goal past the end")
	}
	bad.Duration = -time.Second
	bad.Goals = nil
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected error for a negative duration")
	}
}

func TestResolvePracticeTimed(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("mode", "pick"); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	fileDuration := "90s"
	fileGoals := []string{"30s", " 1m "}
	cfg, _, err := resolvePractice(cmd, config.FileConfig{
		Practice: config.PracticeConfig{Duration: &fileDuration, Goals: &fileGoals},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Mode != "pick" || cfg.Deck != "hiragana" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Duration != 90*time.Second || len(cfg.Goals) != 2 || cfg.Goals[1] != time.Minute {
		t.Fatalf("unexpected timing: %v %v", cfg.Duration, cfg.Goals)
	}

	cmd = newRootCmd()
	if err := cmd.Flags().Set("duration", "2m"); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	cfg, _, err = resolvePractice(cmd, config.FileConfig{
		Practice: config.PracticeConfig{Duration: &fileDuration},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Duration != 2*time.Minute || len(cfg.Goals) != 0 {
		t.Fatalf("expected flag duration to win, got %v %v", cfg.Duration, cfg.Goals)
	}

	cmd = newRootCmd()
	broken := "soon"
	if _, _, err := resolvePractice(cmd, config.FileConfig{
		Practice: config.PracticeConfig{Duration: &broken},
	}); err == nil {
		t.Fatalf("expected error for an unparsable duration")
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Adaptive.WrongFactor != nil {
		t.Fatalf("expected commented template to set nothing: %+v", cfg)
	}
}

func TestStatsConfigValidation(t *testing.T) {
	newStatsCmd()
	statsSince = "2024-13-01"
	if _, err := statsConfig(); err == nil {
		t.Fatalf("expected invalid date error")
	}
	statsSince = "2024-01-02"
	statsMode = "Kanji"
	cfg, err := statsConfig()
	if err != nil {
		t.Fatalf("stats config: %v", err)
	}
	if cfg.Mode != "kanji" || cfg.Since == nil || cfg.CurveWindow != defaultCurveWindow {
		t.Fatalf("unexpected stats config: %+v", cfg)
	}
	statsSince = ""
	statsMode = ""
}
