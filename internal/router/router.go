package router

import (
	"net/http"

	"github.com/evyataryagoni/weather-widget/internal/handler"
	"github.com/evyataryagoni/weather-widget/internal/limiter"
	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	custommiddleware "github.com/evyataryagoni/weather-widget/internal/middleware"
	v1 "github.com/evyataryagoni/weather-widget/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - weatherHandler: the widget page, form actions and JSON API
//   - rateLimiter: throttles the routes that reach the weather provider
//   - m: metrics collector
//   - log: structured logger
//
// Returns:
//   - chi.Router: configured router ready to use
func SetupRouter(weatherHandler *handler.WeatherHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware. RequestID first, RealIP before anything keyed by client IP.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Widget page
	r.Get("/", weatherHandler.Index)

	// Everything below calls the weather provider
	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.ThrottleMiddleware(rateLimiter, m, log))

		// Widget actions (Post/Redirect/Get back to /)
		r.Post("/weather/city", weatherHandler.SearchCity)
		r.Post("/weather/geolocation", weatherHandler.Geolocate)

		// Versioned JSON API
		r.Mount("/v1", v1.SetupRoutes(weatherHandler))
	})

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// healthCheckHandler returns 200 OK while the process is serving
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
