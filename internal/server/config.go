package server

import (
	"os"
	"strconv"

	"github.com/diogo/askweb/internal/config"
	"github.com/diogo/askweb/internal/inference"
)

// Environment variables read by the server
const (
	EnvPort         = "PORT"
	EnvOllamaURL    = "OLLAMA_URL"
	EnvOllamaModel  = "OLLAMA_MODEL"
	EnvMaxNewTokens = "MAX_NEW_TOKENS"
)

// DefaultPort matches the port the client expects by default
const DefaultPort = "8000"

// Config holds the server settings
type Config struct {
	Port         string
	OllamaURL    string
	OllamaModel  string
	MaxNewTokens int
}

// LoadConfig reads the server settings from the environment, optionally
// from a .env file if present.
func LoadConfig() Config {
	config.LoadEnv()

	return Config{
		Port:         getEnv(EnvPort, DefaultPort),
		OllamaURL:    getEnv(EnvOllamaURL, inference.DefaultOllamaURL),
		OllamaModel:  getEnv(EnvOllamaModel, inference.DefaultModel),
		MaxNewTokens: getEnvInt(EnvMaxNewTokens, inference.DefaultMaxTokens),
	}
}

// Addr returns the listen address
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
