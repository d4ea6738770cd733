// Package config resolves pennywise settings from defaults, an optional
// YAML file and PENNYWISE_* environment variables. Command-line flags are
// applied on top by cmd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/pennywise/internal/llm"
	"github.com/abhisek/pennywise/internal/progress"
)

// DefaultUser is the profile used when none is configured.
const DefaultUser = "local"

// Config is the merged application configuration.
type Config struct {
	// DB is the SQLite file for local play. Empty means the default path
	// under the data dir.
	DB string `yaml:"db"`

	// User is the active local profile.
	User string `yaml:"user"`

	// LogMode is "development" or "production".
	LogMode string `yaml:"log_mode"`

	Server ServerConfig `yaml:"server"`
	Remote RemoteConfig `yaml:"remote"`
	LLM    llm.Config   `yaml:"llm"`
}

// ServerConfig configures `pennywise serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// DatabaseURL selects Postgres. Empty serves from the SQLite file.
	DatabaseURL string `yaml:"database_url"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// AllowOrigins lists browser origins allowed by CORS.
	AllowOrigins []string `yaml:"allow_origins"`
}

// RemoteConfig points the TUI at a pennywise server instead of the local
// database.
type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:    DefaultUser,
		LogMode: "development",
		Server: ServerConfig{
			Addr:     ":8080",
			TokenTTL: 30 * 24 * time.Hour,
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// default location is tried and a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	cfg.LLM.Discover()
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.DB, "PENNYWISE_DB")
	setFromEnv(&c.User, "PENNYWISE_USER")
	setFromEnv(&c.LogMode, "PENNYWISE_LOG_MODE")
	setFromEnv(&c.Server.Addr, "PENNYWISE_SERVER_ADDR")
	setFromEnv(&c.Server.DatabaseURL, "PENNYWISE_DATABASE_URL")
	setFromEnv(&c.Server.JWTSecret, "PENNYWISE_JWT_SECRET")
	setFromEnv(&c.Remote.URL, "PENNYWISE_REMOTE_URL")
	setFromEnv(&c.Remote.Token, "PENNYWISE_REMOTE_TOKEN")
	c.LLM.ApplyEnv()
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if err := progress.ValidateUserID(c.User); err != nil {
		return fmt.Errorf("config: user: %w", err)
	}
	if c.Remote.URL != "" && c.Remote.Token == "" {
		return errors.New("config: remote.token is required when remote.url is set")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DefaultPath resolves the config file location:
// 1. PENNYWISE_CONFIG
// 2. $XDG_CONFIG_HOME/pennywise/config.yaml
// 3. ~/.config/pennywise/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("PENNYWISE_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pennywise", "config.yaml"), nil
}
