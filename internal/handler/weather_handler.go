package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/chart"
	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/evyataryagoni/weather-widget/internal/service"
	"github.com/evyataryagoni/weather-widget/internal/store"
	"github.com/evyataryagoni/weather-widget/internal/view"
)

// WeatherHandler handles HTTP requests for the weather widget
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Resolve the session and its current state
//   - Parse form and query parameters
//   - Hand each action to the service and save the resulting state
//   - Render HTML or JSON
type WeatherHandler struct {
	service         *service.WeatherService
	sessions        store.Store
	defaultLocation *time.Location
	logger          *logger.Logger
}

// NewWeatherHandler creates a new weather handler
//
// Parameters:
//   - svc: the weather service
//   - sessions: where per-session state lives
//   - defaultLocation: zone for chart labels when the browser reports none
//   - log: logger (optional, can be nil)
func NewWeatherHandler(svc *service.WeatherService, sessions store.Store, defaultLocation *time.Location, log *logger.Logger) *WeatherHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	if defaultLocation == nil {
		defaultLocation = time.Local
	}
	return &WeatherHandler{
		service:         svc,
		sessions:        sessions,
		defaultLocation: defaultLocation,
		logger:          log.WithComponent("WeatherHandler"),
	}
}

// WeatherResponse is the body of GET /v1/weather
type WeatherResponse struct {
	Conditions *models.CurrentConditions `json:"conditions"`
	Forecast   []models.ForecastPoint    `json:"forecast"`
	Chart      *chart.Chart              `json:"chart"`
}

// Index handles GET /
// Renders the widget for the session's current state.
func (h *WeatherHandler) Index(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	state := h.loadState(r.Context(), id)

	// Render into a buffer so a template failure can still become a clean 500
	var buf bytes.Buffer
	if err := view.RenderPage(&buf, view.Build(state, h.defaultLocation)); err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// SearchCity handles POST /weather/city (form fields: city, tz)
// Runs a fetch by city name and redirects back to the page.
func (h *WeatherHandler) SearchCity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := sessionID(w, r)
	prev := withTimezone(h.loadState(r.Context(), id), r.PostFormValue("tz"))

	next := h.service.FetchByCity(r.Context(), prev, r.PostFormValue("city"))

	h.saveAndRedirect(w, r, id, next)
}

// Geolocate handles POST /weather/geolocation (form fields: status, lat, lon, tz)
// Applies the outcome of the browser's position query and redirects back.
func (h *WeatherHandler) Geolocate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := sessionID(w, r)
	prev := withTimezone(h.loadState(r.Context(), id), r.PostFormValue("tz"))

	result := models.GeolocationResult{
		Status: models.GeolocationStatus(r.PostFormValue("status")),
	}
	if result.Status == models.GeolocationGranted {
		// Unparseable coordinates become NaN and fail validation downstream
		result.Coords = models.Coordinates{
			Lat: parseCoordinate(r.PostFormValue("lat")),
			Lon: parseCoordinate(r.PostFormValue("lon")),
		}
	}

	next := h.service.ResolveGeolocation(r.Context(), prev, result)

	h.saveAndRedirect(w, r, id, next)
}

// GetWeather handles GET /v1/weather?city=<city> or ?lat=<lat>&lon=<lon>[&tz=<zone>]
// Stateless JSON view of one fetch. Every fetch failure is a 404 carrying
// the same message the page shows.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := query.Get("city")
	lat, lon := query.Get("lat"), query.Get("lon")

	if city == "" && lat == "" && lon == "" {
		h.respondError(w, http.StatusBadRequest, "Missing 'city' or 'lat'/'lon' query parameter")
		return
	}

	q := models.LocationQuery{City: city}
	if lat != "" || lon != "" {
		q.Coords = &models.Coordinates{Lat: parseCoordinate(lat), Lon: parseCoordinate(lon)}
	}

	report, err := h.service.Fetch(r.Context(), q)
	if err != nil {
		h.respondError(w, http.StatusNotFound, models.MsgLocationNotFound)
		return
	}

	loc := chart.ResolveLocation(query.Get("tz"), h.defaultLocation)
	h.respondJSON(w, http.StatusOK, WeatherResponse{
		Conditions: report.Conditions,
		Forecast:   report.Forecast,
		Chart:      chart.Build(report.Forecast, loc),
	})
}

// saveAndRedirect stores the next state and sends the browser back to the
// page (Post/Redirect/Get)
func (h *WeatherHandler) saveAndRedirect(w http.ResponseWriter, r *http.Request, id string, next models.State) {
	if err := h.sessions.Save(r.Context(), id, next); err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Msg("Failed to save session state")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func withTimezone(state models.State, tz string) models.State {
	if tz = strings.TrimSpace(tz); tz != "" {
		state.Timezone = tz
	}
	return state
}

func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// respondJSON writes a JSON response with the given status code
func (h *WeatherHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes an error response with consistent formatting
func (h *WeatherHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
