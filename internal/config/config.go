package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPollIntervalSeconds is the thread poll cadence when the config
// does not override it.
const DefaultPollIntervalSeconds = 5

// Config represents the global ~/.friendsnap/config.toml.
type Config struct {
	BaseURL             string `toml:"base_url"`
	DefaultSession      string `toml:"default_session"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
}

// PollInterval returns the configured thread poll interval, falling back
// to the default when unset or nonsensical.
func (c *Config) PollInterval() time.Duration {
	secs := c.PollIntervalSeconds
	if secs <= 0 {
		secs = DefaultPollIntervalSeconds
	}
	return time.Duration(secs) * time.Second
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
