package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings. Everything comes from environment
// variables (optionally via a .env file); the session is persisted
// separately, see session.go.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	LogLevel     string
	CacheEnabled bool
}

// Load reads configuration from the environment. A .env file in the current
// directory is loaded first when present; real environment variables take
// precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:  getEnv("MYNOTE_BASE_URL", "http://localhost:8080/api"),
		LogLevel: getEnv("MYNOTE_LOG_LEVEL", "warn"),
	}

	timeoutStr := getEnv("MYNOTE_TIMEOUT_SECONDS", "30")
	secs, err := strconv.Atoi(timeoutStr)
	if err != nil || secs <= 0 {
		return nil, fmt.Errorf("MYNOTE_TIMEOUT_SECONDS must be a positive integer: %q", timeoutStr)
	}
	cfg.Timeout = time.Duration(secs) * time.Second

	cacheStr := getEnv("MYNOTE_CACHE", "true")
	enabled, err := strconv.ParseBool(cacheStr)
	if err != nil {
		return nil, fmt.Errorf("MYNOTE_CACHE must be a boolean: %q", cacheStr)
	}
	cfg.CacheEnabled = enabled

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
