package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogPretty bool

	// OpenWeatherMap provider
	OWMAPIKey  string
	OWMBaseURL string
	OWMTimeout time.Duration // 0 means no client-side timeout

	// Fallback zone for chart labels when the browser reports none
	DefaultTimezone string

	// Session state
	SessionStoreType string        // "memory" or "redis"
	SessionTTL       time.Duration // sliding lifetime of a widget session

	// Inbound throttling of provider-backed routes
	RateLimiterType string // "memory" or "redis"
	RateLimit       int    // requests allowed per client per window, 0 disables
	RateLimitWindow time.Duration

	// Redis configuration (shared by session store and rate limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In production/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		OWMAPIKey:  getEnv("OWM_API_KEY", ""),
		OWMBaseURL: strings.TrimRight(getEnv("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5"), "/"),
		OWMTimeout: getEnvAsDuration("OWM_TIMEOUT", 0),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "Local"),

		SessionStoreType: getEnv("SESSION_STORE_TYPE", "memory"),
		SessionTTL:       getEnvAsDuration("SESSION_TTL", 30*time.Minute),

		RateLimiterType: getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 30),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
// Accepts anything strconv.ParseBool does ("1", "true", "false", ...)
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration reads an environment variable as a time.Duration ("30s", "5m")
// A bare integer is read as seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
