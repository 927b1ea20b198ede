package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Errors returned by Load for fatal configuration problems. The process must
// refuse to serve when any of these occur.
var (
	ErrNoPassword      = errors.New("config: no access password configured (set LARDER_PASSWORD or LARDER_PASSWORD_HASH)")
	ErrPartialSupabase = errors.New("config: SUPABASE_URL and SUPABASE_KEY must both be set to use the hosted store")
)

// Supabase holds credentials for the hosted PostgREST inventory backend.
// When URL is empty the local SQLite backend is used instead.
type Supabase struct {
	URL   string `yaml:"SUPABASE_URL"`
	Key   string `yaml:"SUPABASE_KEY"`
	Table string `yaml:"SUPABASE_TABLE"`
}

// Enabled reports whether the hosted backend is selected.
func (s Supabase) Enabled() bool {
	return s.URL != "" || s.Key != ""
}

type Config struct {
	Port     string `yaml:"LARDER_PORT"`
	DBPath   string `yaml:"LARDER_DB_PATH"`
	LogLevel string `yaml:"LARDER_LOG_LEVEL"`

	// Shared access secret. Exactly one form is required: plaintext or a
	// bcrypt hash of it.
	Password     string `yaml:"LARDER_PASSWORD"`
	PasswordHash string `yaml:"LARDER_PASSWORD_HASH"`

	Supabase Supabase `yaml:",inline"`
}

// Load resolves configuration from the environment first, then from the
// secrets file named by LARDER_SECRETS_FILE (default "secrets.yaml") for any
// value the environment leaves unset. A missing secrets file is not an error;
// a missing access password is.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("LARDER_SECRETS_FILE")
	if path == "" {
		path = "secrets.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}

	overlayEnv(&cfg.Port, "LARDER_PORT")
	overlayEnv(&cfg.DBPath, "LARDER_DB_PATH")
	overlayEnv(&cfg.LogLevel, "LARDER_LOG_LEVEL")
	overlayEnv(&cfg.Password, "LARDER_PASSWORD")
	overlayEnv(&cfg.PasswordHash, "LARDER_PASSWORD_HASH")
	overlayEnv(&cfg.Supabase.URL, "SUPABASE_URL")
	overlayEnv(&cfg.Supabase.Key, "SUPABASE_KEY")
	overlayEnv(&cfg.Supabase.Table, "SUPABASE_TABLE")

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "larder.db"
	}
	if cfg.Supabase.Table == "" {
		cfg.Supabase.Table = "household_inventory"
	}

	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, ErrNoPassword
	}
	if cfg.Supabase.Enabled() && (cfg.Supabase.URL == "" || cfg.Supabase.Key == "") {
		return nil, ErrPartialSupabase
	}

	return cfg, nil
}

// overlayEnv replaces *dst with the environment value when one is set.
// Environment takes precedence over the secrets file.
func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
