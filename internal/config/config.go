// Package config loads the optional .smarttask/config.yaml file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDataDir is where store, sessions, and event log live by default.
const DefaultDataDir = ".smarttask"

// Config holds the runtime settings.
type Config struct {
	DataDir  string `yaml:"data-dir"`
	Store    string `yaml:"store"`
	Events   string `yaml:"events"`
	Fallback bool   `yaml:"fallback"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		Store:    "tasks.json",
		Events:   "events.log",
		Fallback: true,
	}
}

// Load reads a YAML config file and fills in defaults for missing fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Store == "" {
		cfg.Store = "tasks.json"
	}
	if cfg.Events == "" {
		cfg.Events = "events.log"
	}
	return cfg, nil
}

// StorePath returns the absolute location of the task store document.
func (c *Config) StorePath() string {
	return c.resolve(c.Store)
}

// EventsPath returns the location of the observability event log.
func (c *Config) EventsPath() string {
	return c.resolve(c.Events)
}

// SessionsDir returns the directory holding chat transcripts.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
