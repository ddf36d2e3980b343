// Package config handles configuration for askweb.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/models"
)

// Environment variables that override the config file
const (
	EnvBaseURL        = "ASKWEB_BASE_URL"
	EnvTimeoutSeconds = "ASKWEB_TIMEOUT_SECONDS"
	EnvVerbose        = "ASKWEB_VERBOSE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the prediction service root; requests go to BaseURL + "/predict".
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds a single request. Zero means no timeout: an
	// unresponsive backend keeps the form in its loading state until it answers.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Verbose enables detailed logging output during operations.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		TimeoutSeconds:  0,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration (0 = none)
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PredictURL returns the full predict endpoint URL
func (c Config) PredictURL() string {
	return JoinURL(c.BaseURL, models.PathPredict)
}

// Validate checks the values that would otherwise fail at request time
func (c Config) Validate() error {
	if err := ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.TimeoutSeconds < 0 {
		return apierrors.NewConfigError("timeout_seconds", "must not be negative")
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apierrors.NewConfigError("base_url", "must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return apierrors.NewConfigError("base_url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apierrors.NewConfigError("base_url", "scheme must be http or https")
	}
	if u.Host == "" {
		return apierrors.NewConfigError("base_url", "host is missing")
	}
	return nil
}

// JoinURL joins a base URL and an absolute path without doubling slashes
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".askweb")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads a .env file from the working directory if one exists.
// Variables already set in the process environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	return cfg
}

// Load returns the effective configuration: defaults, then the config file,
// then .env and the process environment.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	LoadEnv()
	return ApplyEnv(cfg), err
}

// setters maps `config set` keys to their parsers
var setters = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		if err := ValidateBaseURL(v); err != nil {
			return err
		}
		c.BaseURL = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apierrors.NewConfigError("timeout_seconds", "must be a non-negative integer")
		}
		c.TimeoutSeconds = n
		return nil
	},
	"verbose": func(c *Config, v string) error {
		return setBool(&c.Verbose, "verbose", v)
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		return setBool(&c.CopyToClipboard, "copy_to_clipboard", v)
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
}

func setBool(dst *bool, key, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return apierrors.NewConfigError(key, "must be true or false")
	}
	*dst = b
	return nil
}

// SetValue updates a single key on cfg
func SetValue(cfg *Config, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return apierrors.NewConfigError(key, fmt.Sprintf("unknown key (valid: %s)", strings.Join(Keys(), ", ")))
	}
	return set(cfg, value)
}

// Keys returns the keys accepted by SetValue, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
