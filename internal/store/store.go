package store

import (
	"context"
	"errors"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

// ErrSessionNotFound is returned when a session is unknown or has expired
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for per-session widget state.
// Allows multiple implementations (memory, Redis) and easy testing with mocks.
//
// State lives only as long as the session: every Load or Save pushes
// expiry out by the store's TTL, and an idle session is forgotten.
type Store interface {
	// Load returns the state saved for id, or ErrSessionNotFound
	Load(ctx context.Context, id string) (models.State, error)

	// Save replaces the state for id
	Save(ctx context.Context, id string, state models.State) error

	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Close cleans up resources (connections, etc.)
	Close() error
}
