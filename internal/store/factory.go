package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/jonboulle/clockwork"
)

// Config holds configuration for creating a session store
type Config struct {
	Type string // "memory" or "redis"
	TTL  time.Duration

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates a session store based on the configuration (factory pattern).
// When m is non-nil the store is wrapped to count operations.
func New(cfg Config, m *metrics.Metrics) (Store, error) {
	storeType := strings.ToLower(strings.TrimSpace(cfg.Type))

	var s Store
	switch storeType {
	case "memory", "":
		storeType = "memory"
		s = NewMemoryStore(cfg.TTL, clockwork.NewRealClock())

	case "redis":
		redisStore, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		s = redisStore

	default:
		return nil, fmt.Errorf("unknown session store type: %s (supported: 'memory', 'redis')", cfg.Type)
	}

	if m == nil {
		return s, nil
	}
	return &instrumentedStore{Store: s, name: storeType, metrics: m}, nil
}

// instrumentedStore counts store operations by outcome
type instrumentedStore struct {
	Store
	name    string
	metrics *metrics.Metrics
}

func (s *instrumentedStore) Load(ctx context.Context, id string) (models.State, error) {
	state, err := s.Store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		s.count("load", "miss")
	case err != nil:
		s.count("load", "error")
	default:
		s.count("load", "hit")
	}
	return state, err
}

func (s *instrumentedStore) Save(ctx context.Context, id string, state models.State) error {
	err := s.Store.Save(ctx, id, state)
	s.count("save", resultLabel(err))
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	s.count("delete", resultLabel(err))
	return err
}

func (s *instrumentedStore) count(operation, result string) {
	s.metrics.SessionOperationsTotal.WithLabelValues(s.name, operation, result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
