// Package config provides configuration for the streaming orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// StreamDelay overrides every agent's token pacing when non-negative.
	// Zero disables pacing entirely; -1 keeps each script's own delay.
	StreamDelay time.Duration

	// ResolveTimeout bounds how long a human-gated tool call may stay
	// pending before it is declined on the human's behalf. Zero means wait
	// forever, matching the reference behavior.
	ResolveTimeout time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8123),
		DatabaseURL:    getEnv("DATABASE_URL", "file:agui.db?cache=shared&mode=rwc"),
		StreamDelay:    time.Duration(getEnvInt("STREAM_DELAY_MS", -1)) * time.Millisecond,
		ResolveTimeout: time.Duration(getEnvInt("RESOLVE_TIMEOUT_MS", 0)) * time.Millisecond,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
