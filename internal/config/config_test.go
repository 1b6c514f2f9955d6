package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Session.GapMinutes != 120 {
		t.Errorf("gap_minutes = %d, want 120", cfg.Session.GapMinutes)
	}
	if cfg.Session.MinMessages != 3 {
		t.Errorf("min_messages = %d, want 3", cfg.Session.MinMessages)
	}
	if cfg.Parser.MaxLineBytes != 10*1024*1024 {
		t.Errorf("max_line_bytes = %d, want 10MiB", cfg.Parser.MaxLineBytes)
	}
	if cfg.Classify.Topics != 5 {
		t.Errorf("topics = %d, want 5", cfg.Classify.Topics)
	}
	if cfg.RecentSessions != 10 {
		t.Errorf("recent_sessions = %d, want 10", cfg.RecentSessions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGapThreshold(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GapThreshold() != 2*time.Hour {
		t.Errorf("GapThreshold = %v, want 2h", cfg.GapThreshold())
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "worklens")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := `log_root = "/tmp/logs"
display_timezone = "UTC"
recent_sessions = 3

[session]
gap_minutes = 30
min_messages = 2
`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogRoot != "/tmp/logs" {
		t.Errorf("log_root = %q", cfg.LogRoot)
	}
	if cfg.Session.GapMinutes != 30 {
		t.Errorf("gap_minutes = %d, want 30", cfg.Session.GapMinutes)
	}
	if cfg.Session.MinMessages != 2 {
		t.Errorf("min_messages = %d, want 2", cfg.Session.MinMessages)
	}
	if cfg.RecentSessions != 3 {
		t.Errorf("recent_sessions = %d, want 3", cfg.RecentSessions)
	}
	// Unset values keep their defaults
	if cfg.Parser.MaxLineBytes != 10*1024*1024 {
		t.Errorf("max_line_bytes = %d, want default", cfg.Parser.MaxLineBytes)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.GapMinutes != 120 {
		t.Errorf("gap_minutes = %d, want default 120", cfg.Session.GapMinutes)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero gap", func(c *Config) { c.Session.GapMinutes = 0 }},
		{"zero min messages", func(c *Config) { c.Session.MinMessages = 0 }},
		{"tiny max line", func(c *Config) { c.Parser.MaxLineBytes = 10 }},
		{"negative topics", func(c *Config) { c.Classify.Topics = -1 }},
		{"bad timezone", func(c *Config) { c.DisplayTimezone = "Mars/Olympus" }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisplayTimezone = "Asia/Tokyo"
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("location = %s", loc)
	}

	cfg.DisplayTimezone = ""
	loc, err = cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("empty timezone should resolve to UTC, got %v, %v", loc, err)
	}
}
