package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (optional) - backs the rate limiter when set
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Identity
	// Header carrying the authenticated user ID, set by the fronting proxy
	// which terminates authentication. e.g. "X-User-ID"
	UserIDHeader string

	// Suggestion engine
	SuggestTTL         time.Duration // cache entry time-to-live
	SuggestMaxEntries  int           // cache capacity per engine
	SuggestDebounce    time.Duration // delay before a lookup fires
	SuggestMinQueryLen int           // minimum trimmed query length
	SuggestSessionIdle time.Duration // idle time before an engine is disposed

	// Background sweeper
	SweepInterval     time.Duration
	ActivityRetention time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost:5432/taskhub?sslmode=disable"),
		RedisURL:     getEnv("REDIS_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", ""),
		UserIDHeader: getEnv("USER_ID_HEADER", "X-User-ID"),

		SuggestTTL:         getDuration("SUGGEST_TTL", 5*time.Minute),
		SuggestMaxEntries:  getInt("SUGGEST_MAX_ENTRIES", 128),
		SuggestDebounce:    getDuration("SUGGEST_DEBOUNCE", 100*time.Millisecond),
		SuggestMinQueryLen: getInt("SUGGEST_MIN_QUERY_LEN", 2),
		SuggestSessionIdle: getDuration("SUGGEST_SESSION_IDLE", 15*time.Minute),

		SweepInterval:     getDuration("SWEEP_INTERVAL", time.Minute),
		ActivityRetention: getDuration("ACTIVITY_RETENTION", 90*24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
