package v1

import (
	"github.com/evyataryagoni/weather-widget/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all v1 API routes
//
// Parameters:
//   - weatherHandler: the weather handler
//
// Returns:
//   - chi.Router: configured v1 router
func SetupRoutes(weatherHandler *handler.WeatherHandler) chi.Router {
	r := chi.NewRouter()

	// GET /v1/weather?city=<city>
	// GET /v1/weather?lat=<lat>&lon=<lon>
	r.Get("/weather", weatherHandler.GetWeather)

	return r
}
