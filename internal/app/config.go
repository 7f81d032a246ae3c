package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"trashmail/internal/api"
	"trashmail/internal/store"
)

const (
	configFilename = "config.yaml"
	defaultTimeout = 30 * time.Second
)

// Environment variables read by LoadConfig.
const (
	EnvAPIURL = "TRASHMAIL_API_URL"
	EnvLang   = "TRASHMAIL_LANG"
	EnvUser   = "TRASHMAIL_USER"
	EnvPass   = "TRASHMAIL_PASS"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string `yaml:"-"`        // config directory, e.g. $HOME/.trashmail
	BaseURL  string `yaml:"api_url"`  // API root, e.g. https://trashmail.com
	Lang     string `yaml:"lang"`     // two-letter language code
	Username string `yaml:"username"` // default login name
	Timeout  string `yaml:"timeout"`  // per-request timeout, e.g. "30s"
	LogLevel string `yaml:"log_level"`

	Password string       `yaml:"-"` // only ever from the environment or flags
	HTTP     *http.Client `yaml:"-"` // optional; a client with Timeout is built otherwise
}

// DefaultConfig returns the built-in defaults for home.
func DefaultConfig(home string) Config {
	return Config{
		Home:    home,
		BaseURL: api.DefaultBaseURL,
		Lang:    api.DefaultLang,
		Timeout: defaultTimeout.String(),
	}
}

// LoadConfig applies, in order: defaults, home/config.yaml if present, and
// environment overrides.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig(home)
	if home != "" {
		if err := cfg.loadFile(cfg.Path()); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLang); v != "" {
		c.Lang = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPass); v != "" {
		c.Password = v
	}
}

// Validate checks fields that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout; empty means the default.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return defaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// Save writes the non-secret fields to home/config.yaml.
func (c Config) Save() error {
	if c.Home == "" {
		return fmt.Errorf("save config: no home directory")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return store.WriteFile(c.Path(), b, 0o600)
}

// Path is the location of the config file inside Home.
func (c Config) Path() string { return filepath.Join(c.Home, configFilename) }
