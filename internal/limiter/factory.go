package limiter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config holds configuration for creating a rate limiter
type Config struct {
	Type   string // "memory" or "redis"
	Limit  int    // requests per window; 0 or less disables limiting
	Window time.Duration

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates a rate limiter based on the configuration (factory pattern)
func New(cfg Config) (Limiter, error) {
	if cfg.Limit <= 0 {
		return Unlimited{}, nil
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "memory", "":
		return NewMemoryLimiter(cfg.Limit, cfg.Window, clockwork.NewRealClock()), nil

	case "redis":
		l, err := NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Limit, cfg.Window, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis limiter: %w", err)
		}
		return l, nil

	default:
		return nil, fmt.Errorf("unknown rate limiter type: %s (supported: 'memory', 'redis')", cfg.Type)
	}
}
