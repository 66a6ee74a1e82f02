// Package config loads the campuscms configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all campuscms configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SessionConfig configures the cookie session store. Key must be at least
// 32 bytes.
type SessionConfig struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type UploadsConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type CacheConfig struct {
	SettingsTTL string `yaml:"settings_ttl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			DSN: "campuscms.db",
		},
		Session: SessionConfig{
			Name: "campuscms-session",
		},
		Uploads: UploadsConfig{
			Dir:      "uploads",
			MaxBytes: 10 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			SettingsTTL: "1h",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Variables from a .env file in the working directory are loaded
// before environment overrides are applied; variables already set win.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CAMPUSCMS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CAMPUSCMS_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("CAMPUSCMS_SESSION_KEY"); v != "" {
		c.Session.Key = v
	}
	if v := os.Getenv("CAMPUSCMS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CAMPUSCMS_UPLOAD_DIR"); v != "" {
		c.Uploads.Dir = v
	}
	if v := os.Getenv("CAMPUSCMS_UPLOAD_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Uploads.MaxBytes = n
		}
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address not configured")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn not configured (set database.dsn or CAMPUSCMS_DSN)")
	}
	if len(c.Session.Key) < 32 {
		return fmt.Errorf("session key must be at least 32 characters long (set session.key or CAMPUSCMS_SESSION_KEY)")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload size limit: %d", c.Uploads.MaxBytes)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}
	if _, err := c.SettingsTTL(); err != nil {
		return err
	}
	return nil
}

// SettingsTTL parses the settings cache lifetime. Zero disables expiry.
func (c *Config) SettingsTTL() (time.Duration, error) {
	if c.Cache.SettingsTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.SettingsTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid settings cache ttl: %w", err)
	}
	return d, nil
}
