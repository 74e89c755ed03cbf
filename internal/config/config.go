package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the client
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	LogLevel       string
	SessionFile    string
}

// DefaultAPIURL is used when no endpoint is configured. The backend mounts
// everything under /api.
const DefaultAPIURL = "http://localhost:8080/api"

// DefaultRequestTimeout matches the single global HTTP timeout the web
// client applied uniformly to every call.
const DefaultRequestTimeout = 15 * time.Second

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	sessionFile := getEnv("UVOTE_SESSION_FILE", "")
	if sessionFile == "" {
		sessionFile = defaultSessionFile()
	}

	return &Config{
		APIURL:         getEnv("UVOTE_API_URL", DefaultAPIURL),
		RequestTimeout: getDurationEnv("UVOTE_TIMEOUT_SECONDS", DefaultRequestTimeout),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
		SessionFile:    sessionFile,
	}, nil
}

// defaultSessionFile places the persisted session under the user config
// directory, falling back to the working directory when none is available
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".uvote-session.json"
	}
	return filepath.Join(dir, "uvote", "session.json")
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationEnv reads a duration expressed as whole seconds
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}
