package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

// MockProvider is a test double for the Provider interface
// It allows tests to control behavior and verify interactions
type MockProvider struct {
	mu sync.Mutex

	// Conditions and Forecasts are keyed by lowercase city name or "lat,lon"
	Conditions map[string]*models.CurrentConditions
	Forecasts  map[string][]models.ForecastPoint

	// Track method calls for verification in tests
	CurrentCalls  []models.LocationQuery
	ForecastCalls []models.LocationQuery

	// Control behavior for error scenarios
	CurrentError  error
	ForecastError error
}

// NewMockProvider creates a mock provider with Jakarta (by name and by
// coordinates -6.2,106.8) returning a 40-entry forecast, like the real API
func NewMockProvider() *MockProvider {
	jakarta := &models.CurrentConditions{
		Name:        "Jakarta",
		Country:     "ID",
		Temperature: 30.5,
		Description: "awan mendung",
		Humidity:    74,
	}
	forecast := SampleForecast(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 40)

	return &MockProvider{
		Conditions: map[string]*models.CurrentConditions{
			"jakarta":    jakarta,
			"-6.2,106.8": jakarta,
		},
		Forecasts: map[string][]models.ForecastPoint{
			"jakarta":    forecast,
			"-6.2,106.8": forecast,
		},
	}
}

// SampleForecast builds n points at 3 hour cadence starting at start,
// with temperature 20 + index
func SampleForecast(start time.Time, n int) []models.ForecastPoint {
	points := make([]models.ForecastPoint, n)
	for i := range points {
		points[i] = models.ForecastPoint{
			Time:        start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 20 + float64(i),
		}
	}
	return points
}

// MockKey is the lookup key the mock uses for a query
func MockKey(q models.LocationQuery) string {
	if q.Coords != nil {
		return fmt.Sprintf("%g,%g", q.Coords.Lat, q.Coords.Lon)
	}
	return strings.ToLower(strings.TrimSpace(q.City))
}

// CurrentConditions implements the Provider interface
func (m *MockProvider) CurrentConditions(_ context.Context, q models.LocationQuery) (*models.CurrentConditions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CurrentCalls = append(m.CurrentCalls, q)

	if m.CurrentError != nil {
		return nil, m.CurrentError
	}

	conditions, exists := m.Conditions[MockKey(q)]
	if !exists {
		return nil, ErrNotFound
	}
	return conditions, nil
}

// Forecast implements the Provider interface
func (m *MockProvider) Forecast(_ context.Context, q models.LocationQuery) ([]models.ForecastPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ForecastCalls = append(m.ForecastCalls, q)

	if m.ForecastError != nil {
		return nil, m.ForecastError
	}

	forecast, exists := m.Forecasts[MockKey(q)]
	if !exists {
		return nil, ErrNotFound
	}
	return forecast, nil
}
