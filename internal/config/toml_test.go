package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected missing config to be ignored: %v", err)
	}
	if cfg.Quiz.Source != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[quiz]
source = "words.csv"
limit = 12
correct-delay-ms = 500
history = false

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Quiz.Source == nil || *cfg.Quiz.Source != "words.csv" {
		t.Fatalf("unexpected source %v", cfg.Quiz.Source)
	}
	if cfg.Quiz.Limit == nil || *cfg.Quiz.Limit != 12 {
		t.Fatalf("unexpected limit %v", cfg.Quiz.Limit)
	}
	if cfg.Quiz.CorrectDelayMs == nil || *cfg.Quiz.CorrectDelayMs != 500 {
		t.Fatalf("unexpected correct delay %v", cfg.Quiz.CorrectDelayMs)
	}
	if cfg.Quiz.IncorrectDelayMs != nil {
		t.Fatalf("expected unset incorrect delay")
	}
	if cfg.Quiz.History == nil || *cfg.Quiz.History {
		t.Fatalf("expected history=false")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %v", cfg.Log.Level)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "tuivoc", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "tuivoc", "history.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
