package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// bucket is a token bucket for a single client
//
//   - holds at most capacity tokens and starts full
//   - refills continuously at refillRate tokens per second
//   - each request takes one token; an empty bucket rejects
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
// Suitable for single-server deployments.
type MemoryLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	idleAfter  time.Duration
	clock      clockwork.Clock
	lastSweep  time.Time
}

// NewMemoryLimiter allows limit requests per window for each key, with
// bursts up to limit
//
// Parameters:
//   - limit: requests per window (must be > 0)
//   - window: length of the window
//   - clock: time source (nil means the real clock)
func NewMemoryLimiter(limit int, window time.Duration, clock clockwork.Clock) *MemoryLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryLimiter{
		buckets:    make(map[string]*bucket),
		capacity:   float64(limit),
		refillRate: float64(limit) / window.Seconds(),
		idleAfter:  window,
		clock:      clock,
		lastSweep:  clock.Now(),
	}
}

// Allow implements the Limiter interface
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.tokens+elapsed*l.refillRate, l.capacity)
	b.lastRefill = now

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}

	l.maybeSweep(now)
	return allowed, nil
}

// maybeSweep drops buckets that have been idle long enough to be full again.
// Must be called with mutex locked.
func (l *MemoryLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleAfter {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) >= l.idleAfter {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Close implements the Limiter interface. Nothing to release.
func (l *MemoryLimiter) Close() error {
	return nil
}
