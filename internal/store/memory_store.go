package store

import (
	"context"
	"sync"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/jonboulle/clockwork"
)

type memoryEntry struct {
	state     models.State
	expiresAt time.Time
}

// MemoryStore keeps session state in a map guarded by a mutex.
// Suitable for single-server deployments.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	ttl       time.Duration
	clock     clockwork.Clock
	lastSweep time.Time
}

// NewMemoryStore creates an in-memory session store
//
// Parameters:
//   - ttl: idle lifetime of a session
//   - clock: time source (nil means the real clock)
func NewMemoryStore(ttl time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		sessions:  make(map[string]memoryEntry),
		ttl:       ttl,
		clock:     clock,
		lastSweep: clock.Now(),
	}
}

// Load implements the Store interface
func (s *MemoryStore) Load(_ context.Context, id string) (models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return models.State{}, ErrSessionNotFound
	}

	now := s.clock.Now()
	if !now.Before(entry.expiresAt) {
		delete(s.sessions, id)
		return models.State{}, ErrSessionNotFound
	}

	entry.expiresAt = now.Add(s.ttl)
	s.sessions[id] = entry
	return entry.state, nil
}

// Save implements the Store interface
func (s *MemoryStore) Save(_ context.Context, id string, state models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sessions[id] = memoryEntry{state: state, expiresAt: now.Add(s.ttl)}
	s.maybeSweep(now)
	return nil
}

// Delete implements the Store interface
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired or not
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// maybeSweep drops expired sessions at most once per TTL.
// Must be called with mutex locked.
func (s *MemoryStore) maybeSweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

// Close implements the Store interface. Nothing to release.
func (s *MemoryStore) Close() error {
	return nil
}
