package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis, so several server instances
// can share widget sessions
//
// Redis Key Format: session:<id>
// Value: JSON-encoded models.State, expiring after the TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis session store
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number (0-15, default is 0)
//   - ttl: idle lifetime of a session
//
// Returns:
//   - *RedisStore: pointer to the created store
//   - error: any error that occurred during connection
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

// Load implements the Store interface
func (s *RedisStore) Load(ctx context.Context, id string) (models.State, error) {
	key := sessionKey(id)

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.State{}, ErrSessionNotFound
		}
		return models.State{}, fmt.Errorf("redis get session: %w", err)
	}

	var state models.State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return models.State{}, fmt.Errorf("failed to decode session state: %w", err)
	}

	// Sliding expiry
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return models.State{}, fmt.Errorf("redis refresh session ttl: %w", err)
	}

	return state, nil
}

// Save implements the Store interface
func (s *RedisStore) Save(ctx context.Context, id string, state models.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

// Delete implements the Store interface
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
