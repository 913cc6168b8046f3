package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/evyataryagoni/weather-widget/internal/provider"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidQuery is returned when a location query fails validation
var ErrInvalidQuery = errors.New("invalid location query")

// WeatherService turns widget actions into state transitions
// This is the service layer - it sits between handlers and the provider
//
// Responsibilities:
//   - Validate the location query
//   - Issue the two provider reads in order
//   - Bound the forecast
//   - Collapse every failure into one user-facing message
type WeatherService struct {
	provider  provider.Provider
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewWeatherService creates a new weather service
//
// Parameters:
//   - p: any implementation of the Provider interface
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewWeatherService(p provider.Provider, m *metrics.Metrics, log *logger.Logger) *WeatherService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &WeatherService{
		provider:  p,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("WeatherService"),
	}
}

// Fetch reads current conditions then the forecast for q.
//
// Flow:
//  1. Validate the query (exactly one of city / coordinates)
//  2. Current conditions read
//  3. Forecast read, started only after the first completes
//  4. Keep the first ForecastLimit forecast entries
//
// Either both reads succeed and a full Report is returned, or nothing is.
func (s *WeatherService) Fetch(ctx context.Context, q models.LocationQuery) (*models.Report, error) {
	q, err := s.validate(q)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", q.Kind()).Msg("Rejected location query")
		s.record(q, "invalid")
		return nil, err
	}

	conditions, err := s.provider.CurrentConditions(ctx, q)
	if err != nil {
		s.fail(q, "current conditions", err)
		return nil, fmt.Errorf("current conditions: %w", err)
	}

	forecast, err := s.provider.Forecast(ctx, q)
	if err != nil {
		s.fail(q, "forecast", err)
		return nil, fmt.Errorf("forecast: %w", err)
	}

	report := &models.Report{
		Conditions: conditions,
		Forecast:   boundForecast(forecast),
	}

	s.logger.Info().
		Str("kind", q.Kind()).
		Str("name", conditions.Name).
		Str("country", conditions.Country).
		Int("forecast_points", len(report.Forecast)).
		Msg("Weather fetch successful")
	s.record(q, "success")

	return report, nil
}

// FetchByCity runs a fetch for the typed city. The raw input is kept as the
// state's query text; the trimmed value is what gets sent.
func (s *WeatherService) FetchByCity(ctx context.Context, prev models.State, city string) models.State {
	next := prev
	next.Query = city
	return s.transition(ctx, next, models.CityQuery(strings.TrimSpace(city)))
}

// FetchByCoordinates runs a fetch for a coordinate pair. The query text is
// left as it was; it plays no part in routing.
func (s *WeatherService) FetchByCoordinates(ctx context.Context, prev models.State, coords models.Coordinates) models.State {
	return s.transition(ctx, prev, models.CoordinatesQuery(coords))
}

// ResolveGeolocation applies the browser's position outcome.
//
// Granted delegates to FetchByCoordinates. Denied and unsupported only set
// their message; conditions and forecast from an earlier fetch stay as they are.
// An unknown status is treated as a failed position query.
func (s *WeatherService) ResolveGeolocation(ctx context.Context, prev models.State, result models.GeolocationResult) models.State {
	status := result.Status
	switch status {
	case models.GeolocationGranted, models.GeolocationUnsupported:
	default:
		status = models.GeolocationDenied
	}

	if s.metrics != nil {
		s.metrics.GeolocationsTotal.WithLabelValues(string(status)).Inc()
	}

	next := prev
	switch status {
	case models.GeolocationGranted:
		return s.FetchByCoordinates(ctx, prev, result.Coords)
	case models.GeolocationUnsupported:
		s.logger.Info().Msg("Geolocation unsupported by browser")
		next.Error = models.MsgGeolocationUnsupported
	default:
		s.logger.Info().Str("status", string(result.Status)).Msg("Geolocation denied or failed")
		next.Error = models.MsgLocationDenied
	}
	return next
}

// transition computes the whole next state in one step so a caller never
// observes conditions from one fetch paired with a forecast from another
func (s *WeatherService) transition(ctx context.Context, next models.State, q models.LocationQuery) models.State {
	report, err := s.Fetch(ctx, q)
	if err != nil {
		next.Conditions = nil
		next.Forecast = nil
		next.Error = models.MsgLocationNotFound
		return next
	}

	next.Conditions = report.Conditions
	next.Forecast = report.Forecast
	next.Error = ""
	return next
}

// validate checks the query and returns it normalized
func (s *WeatherService) validate(q models.LocationQuery) (models.LocationQuery, error) {
	q.City = strings.TrimSpace(q.City)

	if q.Coords != nil {
		if q.City != "" {
			return q, fmt.Errorf("%w: both city and coordinates set", ErrInvalidQuery)
		}
		if err := s.validator.Var(q.Coords.Lat, "latitude"); err != nil {
			return q, fmt.Errorf("%w: latitude %v", ErrInvalidQuery, q.Coords.Lat)
		}
		if err := s.validator.Var(q.Coords.Lon, "longitude"); err != nil {
			return q, fmt.Errorf("%w: longitude %v", ErrInvalidQuery, q.Coords.Lon)
		}
		return q, nil
	}

	if err := s.validator.Var(q.City, "required"); err != nil {
		return q, fmt.Errorf("%w: empty city", ErrInvalidQuery)
	}
	return q, nil
}

func (s *WeatherService) fail(q models.LocationQuery, step string, err error) {
	if errors.Is(err, provider.ErrNotFound) {
		s.logger.Info().Str("kind", q.Kind()).Str("city", q.City).Msg("Location not found")
		s.record(q, "not_found")
		return
	}
	s.logger.Error().Err(err).Str("kind", q.Kind()).Str("step", step).Msg("Weather fetch failed")
	s.record(q, "error")
}

func (s *WeatherService) record(q models.LocationQuery, result string) {
	if s.metrics != nil {
		s.metrics.WeatherFetchesTotal.WithLabelValues(q.Kind(), result).Inc()
	}
}

// boundForecast copies at most ForecastLimit leading entries. A nil list
// stays nil; an empty list stays empty.
func boundForecast(forecast []models.ForecastPoint) []models.ForecastPoint {
	if forecast == nil {
		return nil
	}
	n := min(len(forecast), models.ForecastLimit)
	bounded := make([]models.ForecastPoint, n)
	copy(bounded, forecast[:n])
	return bounded
}
