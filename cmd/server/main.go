package main

import (
	"fmt"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/evyataryagoni/weather-widget/internal/chart"
	"github.com/evyataryagoni/weather-widget/internal/config"
	"github.com/evyataryagoni/weather-widget/internal/handler"
	"github.com/evyataryagoni/weather-widget/internal/limiter"
	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/provider"
	"github.com/evyataryagoni/weather-widget/internal/router"
	"github.com/evyataryagoni/weather-widget/internal/service"
	"github.com/evyataryagoni/weather-widget/internal/store"
	"github.com/evyataryagoni/weather-widget/internal/view"
)

func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)

	if err := view.LoadTemplates(); err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to load templates")
	}

	metricsCollector := setupMetrics(appLogger)

	sessionStore := setupSessionStore(appConfig, metricsCollector, appLogger)
	defer sessionStore.Close()

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	weatherProvider := setupProvider(appConfig, metricsCollector, appLogger)

	// Build application layers
	weatherService := service.NewWeatherService(weatherProvider, metricsCollector, appLogger)

	defaultLocation := chart.ResolveLocation(appConfig.DefaultTimezone, time.Local)
	weatherHandler := handler.NewWeatherHandler(weatherService, sessionStore, defaultLocation, appLogger)
	appRouter := router.SetupRouter(weatherHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting weather widget server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("owm_base_url", appConfig.OWMBaseURL).
		Dur("owm_timeout", appConfig.OWMTimeout).
		Str("default_timezone", appConfig.DefaultTimezone).
		Str("session_store_type", appConfig.SessionStoreType).
		Dur("session_ttl", appConfig.SessionTTL).
		Str("rate_limiter_type", appConfig.RateLimiterType).
		Int("rate_limit", appConfig.RateLimit).
		Dur("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupSessionStore initializes where widget state lives between requests
// Supports in-memory and Redis backends
func setupSessionStore(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) store.Store {
	sessionStore, err := store.New(store.Config{
		Type:          appConfig.SessionStoreType,
		TTL:           appConfig.SessionTTL,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	}, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}

	fmt.Printf("✅ Session store initialized (type: %s, ttl: %s)\n", appConfig.SessionStoreType, appConfig.SessionTTL)
	return sessionStore
}

// setupRateLimiter initializes the per-client throttle for provider-backed routes
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	rateLimiter, err := limiter.New(limiter.Config{
		Type:          appConfig.RateLimiterType,
		Limit:         appConfig.RateLimit,
		Window:        appConfig.RateLimitWindow,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	if appConfig.RateLimit <= 0 {
		fmt.Println("✅ Rate limiter disabled")
	} else {
		fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %s)\n",
			appConfig.RateLimiterType, appConfig.RateLimit, appConfig.RateLimitWindow)
	}

	return rateLimiter
}

// setupProvider initializes the OpenWeatherMap client
func setupProvider(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) provider.Provider {
	if appConfig.OWMAPIKey == "" {
		// Every lookup will fail with 401 and show the not-found message
		log.Warn().Msg("OWM_API_KEY is not set")
	}

	return provider.NewOpenWeatherMap(provider.Config{
		APIKey:  appConfig.OWMAPIKey,
		BaseURL: appConfig.OWMBaseURL,
		Timeout: appConfig.OWMTimeout,
	}, m, log)
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("widget", "http://localhost:"+appConfig.Port+"/").
		Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/weather?city=<city>").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
