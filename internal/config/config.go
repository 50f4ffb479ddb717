// Package config loads runtime settings from TODOMON_* environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/abhisek/todomon/internal/store"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "TODOMON_"

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all runtime settings.
type Config struct {
	DataDir      string        `env:"DATA_DIR"`
	Store        string        `env:"STORE" envDefault:"file"`
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	FetchWorkers int           `env:"FETCH_WORKERS" envDefault:"3"`
	Roster       string        `env:"ROSTER"`
	Locale       string        `env:"LOCALE" envDefault:"ko"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string        `env:"LOG_FILE"`
}

// Load parses the environment, fills path defaults and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that env parsing cannot.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%sSTORE: unknown backend %q (want %q or %q)", EnvPrefix, c.Store, StoreFile, StoreSQLite)
	}
	if c.FetchWorkers < 1 {
		return fmt.Errorf("%sFETCH_WORKERS must be at least 1, got %d", EnvPrefix, c.FetchWorkers)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%sHTTP_TIMEOUT must be positive, got %s", EnvPrefix, c.HTTPTimeout)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%sLOCALE: %w", EnvPrefix, err)
	}
	return nil
}

// Language returns the configured locale. Invalid locales fall back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// UsersDir is where the file store keeps one JSON document per user.
func (c *Config) UsersDir() string {
	return filepath.Join(c.DataDir, "users")
}

// DBPath is the SQLite database holding the event log and, with the sqlite
// backend, user saves.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "todomon.db")
}

// RosterPath returns the roster cache location.
func (c *Config) RosterPath() string {
	if c.Roster != "" {
		return c.Roster
	}
	return filepath.Join(c.DataDir, "base_ids.json")
}

// LogPath returns the log file used while the TUI owns the terminal.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "todomon.log")
}
