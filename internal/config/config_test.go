package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apierrors "github.com/diogo/askweb/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL to be 'http://localhost:8000', got '%s'", cfg.BaseURL)
	}

	if cfg.TimeoutSeconds != 0 {
		t.Errorf("Expected no timeout by default, got %d", cfg.TimeoutSeconds)
	}

	if cfg.Timeout() != 0 {
		t.Errorf("Expected Timeout() to be 0, got %v", cfg.Timeout())
	}

	if cfg.Verbose != false {
		t.Errorf("Expected Verbose to be false, got %v", cfg.Verbose)
	}

	if cfg.PredictURL() != "http://localhost:8000/predict" {
		t.Errorf("PredictURL() = %s", cfg.PredictURL())
	}
}

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir != filepath.Join(home, ".askweb") {
		t.Errorf("GetConfigDir() = %s", dir)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://qa.example.com"
	cfg.TimeoutSeconds = 45
	cfg.Verbose = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".askweb", "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file permissions = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
	if loaded.Timeout() != 45*time.Second {
		t.Errorf("Timeout() = %v", loaded.Timeout())
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".askweb")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("Expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Error("Expected defaults on parse failure")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://10.0.0.5:8000")
	t.Setenv(EnvTimeoutSeconds, "12")
	t.Setenv(EnvVerbose, "true")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 12 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestApplyEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvTimeoutSeconds, "soon")
	t.Setenv(EnvVerbose, "maybe")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.TimeoutSeconds != 0 {
		t.Errorf("TimeoutSeconds = %d, want 0", cfg.TimeoutSeconds)
	}
	if cfg.Verbose {
		t.Error("Verbose should stay false")
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"local", "http://localhost:8000", false},
		{"https with path", "https://api.example.com/qa", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"no scheme", "localhost:8000", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBaseURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !apierrors.IsConfigError(err) {
				t.Errorf("Expected ConfigError, got %T", err)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	if got := JoinURL("http://localhost:8000/", "/predict"); got != "http://localhost:8000/predict" {
		t.Errorf("JoinURL() = %s", got)
	}
	if got := JoinURL("http://host/api", "/predict"); got != "http://host/api/predict" {
		t.Errorf("JoinURL() = %s", got)
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"base_url", "https://qa.example.com", false, func(c Config) bool { return c.BaseURL == "https://qa.example.com" }},
		{"base_url", "not a url", true, nil},
		{"timeout_seconds", "30", false, func(c Config) bool { return c.TimeoutSeconds == 30 }},
		{"timeout_seconds", "-1", true, nil},
		{"verbose", "true", false, func(c Config) bool { return c.Verbose }},
		{"verbose", "yes please", true, nil},
		{"copy_to_clipboard", "1", false, func(c Config) bool { return c.CopyToClipboard }},
		{"tui_theme", "nord", false, func(c Config) bool { return c.TUITheme == "nord" }},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"unknown", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := SetValue(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("SetValue(%s, %s) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults returned %v", err)
	}

	cfg.TimeoutSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative timeout")
	}
}
