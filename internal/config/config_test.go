package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	want := &Config{
		BaseURL:             "http://localhost:8000",
		DefaultSession:      "work",
		PollIntervalSeconds: 10,
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPollIntervalDefaults(t *testing.T) {
	var cfg Config
	if got := cfg.PollInterval(); got != 5*time.Second {
		t.Errorf("zero config interval = %v, want 5s", got)
	}
	cfg.PollIntervalSeconds = -1
	if got := cfg.PollInterval(); got != 5*time.Second {
		t.Errorf("negative interval = %v, want 5s", got)
	}
	cfg.PollIntervalSeconds = 30
	if got := cfg.PollInterval(); got != 30*time.Second {
		t.Errorf("interval = %v, want 30s", got)
	}
}
