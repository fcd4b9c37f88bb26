// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Adaptive AdaptiveConfig `toml:"adaptive"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode       *string   `toml:"mode"`
	Deck       *string   `toml:"deck"`
	Groups     *[]string `toml:"groups"`
	Reverse    *bool     `toml:"reverse"`
	WordLength *int      `toml:"word-length"`
	Duration   *string   `toml:"duration"`
	Goals      *[]string `toml:"goals"`
}

// AdaptiveConfig maps the weight policy of the selection engine.
type AdaptiveConfig struct {
	DefaultWeight *float64 `toml:"default-weight"`
	MinWeight     *float64 `toml:"min-weight"`
	MaxWeight     *float64 `toml:"max-weight"`
	CorrectFactor *float64 `toml:"correct-factor"`
	WrongFactor   *float64 `toml:"wrong-factor"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
