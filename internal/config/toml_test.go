package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Adaptive.MinWeight != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `[practice]
mode = "kanji"
groups = ["numbers", "nature"]
word-length = 4
duration = "2m"
goals = ["30s", "1m"]

[adaptive]
wrong-factor = 2.0

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "kanji" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.Groups == nil || len(*cfg.Practice.Groups) != 2 {
		t.Fatalf("unexpected groups: %v", cfg.Practice.Groups)
	}
	if cfg.Practice.WordLength == nil || *cfg.Practice.WordLength != 4 {
		t.Fatalf("unexpected word length: %v", cfg.Practice.WordLength)
	}
	if cfg.Practice.Duration == nil || *cfg.Practice.Duration != "2m" {
		t.Fatalf("unexpected duration: %v", cfg.Practice.Duration)
	}
	if cfg.Practice.Goals == nil || len(*cfg.Practice.Goals) != 2 {
		t.Fatalf("unexpected goals: %v", cfg.Practice.Goals)
	}
	if cfg.Adaptive.WrongFactor == nil || *cfg.Adaptive.WrongFactor != 2.0 {
		t.Fatalf("unexpected wrong factor: %v", cfg.Adaptive.WrongFactor)
	}
	if cfg.Adaptive.CorrectFactor != nil {
		t.Fatalf("expected unset correct factor")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuidrill", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDeckDir(); got != filepath.Join("/cfg", "tuidrill", "decks") {
		t.Fatalf("unexpected deck dir %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuidrill", "tuidrill.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "tuidrill", "tuidrill.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
