package store

import (
	"context"
	"sync"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

// MockStore is a test double for the Store interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	mu sync.Mutex

	// Sessions holds the mock data (session ID -> state)
	Sessions map[string]models.State

	// Track method calls for verification in tests
	LoadCalls   []string
	SaveCalls   []string
	DeleteCalls []string
	CloseCalled bool

	// Control behavior for error scenarios
	LoadError  error
	SaveError  error
	CloseError error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		Sessions: map[string]models.State{},
	}
}

// Load implements the Store interface
func (m *MockStore) Load(_ context.Context, id string) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls = append(m.LoadCalls, id)
	if m.LoadError != nil {
		return models.State{}, m.LoadError
	}

	state, exists := m.Sessions[id]
	if !exists {
		return models.State{}, ErrSessionNotFound
	}
	return state, nil
}

// Save implements the Store interface
func (m *MockStore) Save(_ context.Context, id string, state models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, id)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Sessions[id] = state
	return nil
}

// Delete implements the Store interface
func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	delete(m.Sessions, id)
	return nil
}

// Get returns the stored state without recording a call
func (m *MockStore) Get(id string) (models.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.Sessions[id]
	return state, ok
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
