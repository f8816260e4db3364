// Package config loads the client configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"questrpg/pkg/logger"
)

// Config holds all client configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Sync    SyncConfig    `yaml:"sync" mapstructure:"sync"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
}

// ServerConfig contains backend connection settings
type ServerConfig struct {
	BaseURL   string          `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration   `yaml:"timeout" mapstructure:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig throttles outgoing requests. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" mapstructure:"rps"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

// SessionConfig selects where the credential and user snapshot live.
type SessionConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"` // file, sqlite, redis, memory
	Path    string      `yaml:"path" mapstructure:"path"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig for the redis session backend
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// SyncConfig tunes background refresh
type SyncConfig struct {
	DecayPollInterval time.Duration `yaml:"decay_poll_interval" mapstructure:"decay_poll_interval"`
	LeaderboardLimit  int           `yaml:"leaderboard_limit" mapstructure:"leaderboard_limit"`
	HistoryLimit      int           `yaml:"history_limit" mapstructure:"history_limit"`
}

// UIConfig for UI preferences
type UIConfig struct {
	Theme   string `yaml:"theme" mapstructure:"theme"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				RPS:   10,
				Burst: 20,
			},
		},
		Session: SessionConfig{
			Backend: "file",
			Path:    filepath.Join(configDir(), "session.yaml"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "questrpg:",
			},
		},
		Sync: SyncConfig{
			DecayPollInterval: 60 * time.Second,
			LeaderboardLimit:  10,
			HistoryLimit:      30,
		},
		Logging: logger.Config{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		UI: UIConfig{
			Theme: "dracula",
		},
	}
}

// Load loads configuration from file, falling back to defaults. Missing keys
// keep their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}

	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://, got %q", c.Server.BaseURL)
	}
	switch c.Session.Backend {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("session.backend must be one of file, sqlite, redis, memory, got %q", c.Session.Backend)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultPath is where Save writes when no path was given.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "questrpg")
	}
	return filepath.Join(os.Getenv("HOME"), ".questrpg")
}

// findConfigFile searches for config in standard locations
func findConfigFile() string {
	locations := []string{
		"./quest.yaml",
		"./config/quest.yaml",
		DefaultPath(),
		filepath.Join(os.Getenv("HOME"), ".quest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// APIBaseURL returns the base URL without a trailing slash
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/")
}
