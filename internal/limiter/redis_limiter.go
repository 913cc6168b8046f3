package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every server instance
//
// Key format: ratelimit:<key>:<window index>
// Each request INCRs the counter for the current window; the key expires
// once the window is over.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	clock  clockwork.Clock
}

// NewRedisLimiter creates a Redis-backed limiter
//
// Parameters:
//   - addr, password, db: Redis connection settings
//   - limit: requests per window
//   - window: window length (whole seconds)
//   - clock: time source (nil means the real clock)
func NewRedisLimiter(addr, password string, db int, limit int, window time.Duration, clock clockwork.Clock) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window < time.Second {
		window = time.Second
	}

	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		clock:  clock,
	}, nil
}

// Allow implements the Limiter interface
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowIndex := l.clock.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowIndex)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
