// Package config loads the magnus configuration from a YAML file with
// MAGNUS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotConfigured is returned when no server URL is available.
var ErrNotConfigured = errors.New(`server URL not configured, run "magnus config" first`)

// Config holds the user's connection settings. The current remote directory
// is kept per working directory by the state package, not here.
type Config struct {
	ServerURL string        `yaml:"server_url"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Cookie    string        `yaml:"cookie,omitempty"`
	Retries   int           `yaml:"retries,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`

	Log     LogConfig     `yaml:"log,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
}

// LogConfig selects log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// StorageConfig selects where pulled files are written ("local" or "s3").
type StorageConfig struct {
	Backend string   `yaml:"backend,omitempty"`
	S3      S3Config `yaml:"s3,omitempty"`
}

// S3Config holds the mirror bucket settings.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// DefaultPath returns the config file location: MAGNUS_CONFIG if set,
// otherwise magnus-cli/config.yaml under the user config directory.
func DefaultPath() string {
	if p := os.Getenv("MAGNUS_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "magnus-cli", "config.yaml")
}

// Load reads the config file at path and applies environment overrides.
// A missing or unparseable file yields defaults.
func Load(path string) *Config {
	cfg := readFile(path)
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// Update reads the file at path without environment overrides, applies fn
// and writes the result back.
func Update(path string, fn func(*Config)) error {
	cfg := readFile(path)
	fn(cfg)
	return Save(path, cfg)
}

// Save writes cfg to path with owner-only permissions.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate returns ErrNotConfigured if no server URL is set.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return ErrNotConfigured
	}
	return nil
}

// IsAuthenticated reports whether server URL and credentials are all present.
func (c *Config) IsAuthenticated() bool {
	return c.ServerURL != "" && c.Username != "" && c.Password != ""
}

func readFile(path string) *Config {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &Config{}
	}
	return cfg
}

func (c *Config) applyEnv() {
	c.ServerURL = envOr("MAGNUS_SERVERURL", c.ServerURL)
	c.Username = envOr("MAGNUS_USERNAME", c.Username)
	c.Password = envOr("MAGNUS_PASSWORD", c.Password)
	c.Cookie = envOr("MAGNUS_COOKIE", c.Cookie)
	c.Retries = envInt("MAGNUS_RETRIES", c.Retries)
	c.Log.Level = envOr("MAGNUS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("MAGNUS_LOG_FORMAT", c.Log.Format)
	c.Storage.Backend = envOr("MAGNUS_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.S3.Bucket = envOr("MAGNUS_S3_BUCKET", c.Storage.S3.Bucket)
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Storage.S3.Region == "" {
		c.Storage.S3.Region = "us-east-1"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
