package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *OpenWeatherMap {
	return NewOpenWeatherMap(Config{APIKey: testAPIKey, BaseURL: baseURL, Timeout: 5 * time.Second},
		metrics.NewWithRegistry(prometheus.NewRegistry()), logger.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

const currentBody = `{
	"name": "Jakarta",
	"sys": {"country": "ID"},
	"main": {"temp": 30.5, "humidity": 74},
	"weather": [{"description": "awan mendung"}, {"description": "kabut"}]
}`

func TestOpenWeatherMap_CurrentConditions_ByCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "Jakarta", r.URL.Query().Get("q"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Empty(t, r.URL.Query().Get("lat"))
		writeJSON(t, w, currentBody)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.CurrentConditions(context.Background(), models.CityQuery("Jakarta"))
	require.NoError(t, err)

	assert.Equal(t, &models.CurrentConditions{
		Name:        "Jakarta",
		Country:     "ID",
		Temperature: 30.5,
		Description: "awan mendung",
		Humidity:    74,
	}, got)
}

func TestOpenWeatherMap_CurrentConditions_ByCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-6.2", r.URL.Query().Get("lat"))
		assert.Equal(t, "106.8166", r.URL.Query().Get("lon"))
		assert.False(t, r.URL.Query().Has("q"), "city param must not be sent with coordinates")
		writeJSON(t, w, currentBody)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CurrentConditions(context.Background(),
		models.CoordinatesQuery(models.Coordinates{Lat: -6.2, Lon: 106.8166}))
	require.NoError(t, err)
}

func TestOpenWeatherMap_CurrentConditions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, ErrNotFound},
		{"empty weather list", http.StatusOK, `{"name":"X","sys":{},"main":{},"weather":[]}`, ErrMalformedResponse},
		{"missing weather list", http.StatusOK, `{"name":"X"}`, ErrMalformedResponse},
		{"unauthorized", http.StatusUnauthorized, `{"cod":401}`, nil},
		{"invalid json", http.StatusOK, `{not json`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set(headerContentType, contentTypeJSON)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(srv.URL)
			got, err := c.CurrentConditions(context.Background(), models.CityQuery("X"))

			require.Error(t, err)
			assert.Nil(t, got)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOpenWeatherMap_CurrentConditions_StatusInError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CurrentConditions(context.Background(), models.CityQuery("X"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestOpenWeatherMap_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		type entry struct {
			Dt   int64          `json:"dt"`
			Main map[string]any `json:"main"`
		}
		list := make([]entry, 0, 40)
		for i := 0; i < 40; i++ {
			list = append(list, entry{Dt: 1767225600 + int64(i)*10800, Main: map[string]any{"temp": 25.0 + float64(i)/10}})
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"list": list}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	points, err := c.Forecast(context.Background(), models.CityQuery("Jakarta"))
	require.NoError(t, err)

	// The client returns the whole list; trimming is the caller's job
	require.Len(t, points, 40)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), points[0].Time)
	assert.Equal(t, 25.0, points[0].Temperature)
	assert.Equal(t, time.Unix(1767225600+10800, 0).UTC(), points[1].Time)
	assert.InDelta(t, 25.1, points[1].Temperature, 1e-9)
}

func TestOpenWeatherMap_Forecast_EmptyAndMissingList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"empty list", `{"list":[]}`, false},
		{"missing list", `{"cod":"200"}`, true},
		{"null list", `{"list":null}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.body)
			}))
			defer srv.Close()

			c := testClient(srv.URL)
			points, err := c.Forecast(context.Background(), models.CityQuery("X"))

			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, points)
			assert.Empty(t, points)
		})
	}
}

func TestOpenWeatherMap_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, currentBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.CurrentConditions(ctx, models.CityQuery("Jakarta"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenWeatherMap_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/forecast" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, currentBody)
	}))
	defer srv.Close()

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := NewOpenWeatherMap(Config{APIKey: testAPIKey, BaseURL: srv.URL}, m, logger.NewNop())

	_, err := c.CurrentConditions(context.Background(), models.CityQuery("Jakarta"))
	require.NoError(t, err)
	_, err = c.Forecast(context.Background(), models.CityQuery("Jakarta"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("weather", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("forecast", "error")))
}
