// Package config loads application configuration from environment variables,
// with optional loading from a .env file via godotenv.
//
// WHY ENV VARS?
// Every external collaborator of this service (database, model provider,
// messaging provider) is addressed by a secret or a URL. Env vars are the
// twelve-factor way to inject those without baking them into the binary, and
// a .env file keeps local development convenient.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the full configuration surface of the server.
// Using a struct (instead of reading os.Getenv all over the codebase) means
// configuration is validated once, in one place, at startup.
type Config struct {
	// Server settings
	Port        string
	FrontendURL string // CORS origin for the browser client (optional)
	LogLevel    string

	// Database settings
	DatabaseURL string // sqlite path, or ":memory:" for tests

	// Completion provider (OpenAI-compatible endpoint)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	ChatModel         string

	// Real-time messaging provider
	StreamAPIKey    string
	StreamAPISecret string
}

// Load reads configuration from the environment and an optional .env file.
// It returns an error if any required value is missing.
func Load() (*Config, error) {
	// Try to load .env, but proceed even if it doesn't exist — production
	// deployments set real environment variables instead.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables only")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		DatabaseURL: getEnv("DATABASE_URL", "data/gossip.db"),

		OpenRouterAPIKey:  getEnv("OPEN_ROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPEN_ROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ChatModel:         getEnv("CHAT_MODEL", "google/gemma-2-9b-it:free"),

		StreamAPIKey:    getEnv("STREAM_API_KEY", ""),
		StreamAPISecret: getEnv("STREAM_API_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that every required value is present. We collect ALL the
// missing names instead of failing on the first one, so a fresh deployment
// gets a single actionable error instead of a whack-a-mole loop.
func (c *Config) validate() error {
	var missing []string

	if c.OpenRouterAPIKey == "" {
		missing = append(missing, "OPEN_ROUTER_API_KEY")
	}
	if c.StreamAPIKey == "" {
		missing = append(missing, "STREAM_API_KEY")
	}
	if c.StreamAPISecret == "" {
		missing = append(missing, "STREAM_API_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.FrontendURL == "" {
		slog.Warn("FRONTEND_URL is not set, CORS allows any origin")
	}

	return nil
}

// getEnv retrieves the value of the environment variable named by the key.
// If the variable is not present, the defaultValue is returned.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
