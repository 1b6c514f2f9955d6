package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all worklens configuration. It is loaded once at startup and
// passed by value through the pipeline; nothing mutates it afterwards.
type Config struct {
	LogRoot         string `toml:"log_root"`
	DisplayTimezone string `toml:"display_timezone"`
	RecentSessions  int    `toml:"recent_sessions"`

	Session  SessionConfig  `toml:"session"`
	Parser   ParserConfig   `toml:"parser"`
	Classify ClassifyConfig `toml:"classify"`
}

type SessionConfig struct {
	GapMinutes  int `toml:"gap_minutes"`
	MinMessages int `toml:"min_messages"`
}

type ParserConfig struct {
	MaxLineBytes int `toml:"max_line_bytes"`
}

type ClassifyConfig struct {
	Topics            int      `toml:"topics"`
	ExtraTechnologies []string `toml:"extra_technologies"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogRoot:         "~/.claude/projects",
		DisplayTimezone: "UTC",
		RecentSessions:  10,
		Session: SessionConfig{
			GapMinutes:  120,
			MinMessages: 3,
		},
		Parser: ParserConfig{
			MaxLineBytes: 10 * 1024 * 1024,
		},
		Classify: ClassifyConfig{
			Topics: 5,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.LogRoot = expandHome(cfg.LogRoot)

	return cfg, cfg.Validate()
}

// Validate rejects values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.Session.GapMinutes <= 0 {
		return fmt.Errorf("session.gap_minutes must be positive, got %d", c.Session.GapMinutes)
	}
	if c.Session.MinMessages < 1 {
		return fmt.Errorf("session.min_messages must be at least 1, got %d", c.Session.MinMessages)
	}
	if c.Parser.MaxLineBytes < 1024 {
		return fmt.Errorf("parser.max_line_bytes too small: %d", c.Parser.MaxLineBytes)
	}
	if c.Classify.Topics < 0 {
		return fmt.Errorf("classify.topics must not be negative, got %d", c.Classify.Topics)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// GapThreshold returns the session gap as a duration.
func (c Config) GapThreshold() time.Duration {
	return time.Duration(c.Session.GapMinutes) * time.Minute
}

// Location resolves the configured display timezone.
func (c Config) Location() (*time.Location, error) {
	name := c.DisplayTimezone
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display_timezone %q: %w", name, err)
	}
	return loc, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "worklens", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "worklens", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
