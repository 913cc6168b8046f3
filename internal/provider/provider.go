package provider

import (
	"context"
	"errors"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

var (
	// ErrNotFound is returned when the provider does not know the location
	ErrNotFound = errors.New("location not found")

	// ErrMalformedResponse is returned when a 200 body lacks required fields
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Provider defines the two reads a weather fetch needs.
// Allows swapping the real API client for a mock in tests.
type Provider interface {
	// CurrentConditions returns the present weather at the queried location
	CurrentConditions(ctx context.Context, q models.LocationQuery) (*models.CurrentConditions, error)

	// Forecast returns the provider's full forecast list, oldest first
	Forecast(ctx context.Context, q models.LocationQuery) ([]models.ForecastPoint, error)
}
