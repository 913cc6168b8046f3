package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/models"
)

const (
	endpointCurrent  = "weather"
	endpointForecast = "forecast"
)

// Config holds OpenWeatherMap client settings
type Config struct {
	APIKey  string
	BaseURL string        // e.g. https://api.openweathermap.org/data/2.5
	Timeout time.Duration // 0 means no client-side timeout
}

// OpenWeatherMap implements Provider against the OpenWeatherMap 2.5 API.
// All requests use metric units.
type OpenWeatherMap struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewOpenWeatherMap creates an OpenWeatherMap client
//
// Parameters:
//   - cfg: credentials, base URL and timeout
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewOpenWeatherMap(cfg Config, m *metrics.Metrics, log *logger.Logger) *OpenWeatherMap {
	if log == nil {
		log = logger.NewDefault()
	}
	return &OpenWeatherMap{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: m,
		logger:  log.WithComponent("OpenWeatherMap"),
	}
}

// CurrentConditions fetches GET {base}/weather for the query
func (c *OpenWeatherMap) CurrentConditions(ctx context.Context, q models.LocationQuery) (*models.CurrentConditions, error) {
	var resp currentResponse
	if err := c.get(ctx, endpointCurrent, q, &resp); err != nil {
		return nil, err
	}

	if len(resp.Weather) == 0 {
		return nil, fmt.Errorf("%s: %w: empty weather list", endpointCurrent, ErrMalformedResponse)
	}

	return &models.CurrentConditions{
		Name:        resp.Name,
		Country:     resp.Sys.Country,
		Temperature: resp.Main.Temp,
		Description: resp.Weather[0].Description,
		Humidity:    resp.Main.Humidity,
	}, nil
}

// Forecast fetches GET {base}/forecast for the query (5 day / 3 hour list)
func (c *OpenWeatherMap) Forecast(ctx context.Context, q models.LocationQuery) ([]models.ForecastPoint, error) {
	var resp forecastResponse
	if err := c.get(ctx, endpointForecast, q, &resp); err != nil {
		return nil, err
	}

	if resp.List == nil {
		return nil, fmt.Errorf("%s: %w: missing list", endpointForecast, ErrMalformedResponse)
	}

	points := make([]models.ForecastPoint, 0, len(resp.List))
	for _, entry := range resp.List {
		points = append(points, models.ForecastPoint{
			Time:        time.Unix(entry.Dt, 0).UTC(),
			Temperature: entry.Main.Temp,
		})
	}
	return points, nil
}

// queryParams builds q=<city> or lat=&lon=, plus appid and units=metric
func (c *OpenWeatherMap) queryParams(q models.LocationQuery) url.Values {
	params := url.Values{
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	if q.Coords != nil {
		params.Set("lat", strconv.FormatFloat(q.Coords.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Coords.Lon, 'f', -1, 64))
	} else {
		params.Set("q", q.City)
	}
	return params
}

func (c *OpenWeatherMap) get(ctx context.Context, endpoint string, q models.LocationQuery, out any) (err error) {
	start := time.Now()
	defer func() {
		c.observe(endpoint, start, err)
	}()

	fullURL := c.baseURL + "/" + endpoint + "?" + c.queryParams(q).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("kind", q.Kind()).
		Msg("Requesting weather provider")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openweathermap API error: %s: status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// observe records request duration and outcome for one endpoint call
func (c *OpenWeatherMap) observe(endpoint string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	c.metrics.ProviderRequestsTotal.WithLabelValues(endpoint, result).Inc()
}

// OpenWeatherMap API response types.

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main    mainBlock `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
}

type forecastEntry struct {
	Dt   int64     `json:"dt"`
	Main mainBlock `json:"main"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}
