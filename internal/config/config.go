// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Backend selects the storage adapter.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds every runtime setting.
type Config struct {
	// HTTP server
	Addr   string
	WebDir string

	// Storage
	Backend     string
	DatabaseURL string

	// Photo blobs
	PhotosBucketURL string

	// Logging
	LogLevel slog.Level
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Addr:            getEnv("ADDR", ":8080"),
		WebDir:          getEnv("WEB_DIR", "web"),
		Backend:         getEnv("BACKEND", BackendMemory),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		PhotosBucketURL: getEnv("PHOTOS_BUCKET_URL", "mem://"),
		LogLevel:        parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	switch c.Backend {
	case BackendMemory, BackendPostgres:
	default:
		problems = append(problems, fmt.Sprintf("invalid backend %q: must be %q or %q",
			c.Backend, BackendMemory, BackendPostgres))
	}
	if c.Backend == BackendPostgres && c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required for the postgres backend")
	}
	if c.Addr == "" {
		problems = append(problems, "ADDR must not be empty")
	}
	if c.PhotosBucketURL == "" {
		problems = append(problems, "PHOTOS_BUCKET_URL must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
