package models

import "time"

// User-facing messages. Every fetch failure collapses into MsgLocationNotFound.
const (
	MsgLocationNotFound       = "Kota tidak ditemukan atau input tidak valid"
	MsgLocationDenied         = "Izinkan akses lokasi untuk melihat cuaca di sekitar Anda"
	MsgGeolocationUnsupported = "Geolokasi tidak didukung oleh browser ini"
	MsgRateLimited            = "Terlalu banyak permintaan, coba lagi nanti"
)

// ForecastLimit is how many forecast entries are kept from the provider list
const ForecastLimit = 12

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocationQuery selects the location of one fetch: a city name or coordinates, never both
type LocationQuery struct {
	City   string       `json:"city,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// CityQuery builds a query by free-text place name
func CityQuery(city string) LocationQuery {
	return LocationQuery{City: city}
}

// CoordinatesQuery builds a query by coordinates
func CoordinatesQuery(c Coordinates) LocationQuery {
	return LocationQuery{Coords: &c}
}

// Kind returns "coordinates" or "city" (used as a metrics label)
func (q LocationQuery) Kind() string {
	if q.Coords != nil {
		return "coordinates"
	}
	return "city"
}

// CurrentConditions is the point-in-time weather snapshot, verbatim from the provider
type CurrentConditions struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"` // °C
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"` // %
}

// ForecastPoint is one forecasted sample
type ForecastPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"` // °C
}

// Report is the result of one successful fetch: conditions plus the bounded forecast
type Report struct {
	Conditions *CurrentConditions `json:"conditions"`
	Forecast   []ForecastPoint    `json:"forecast"`
}

// Screen tags which of the three widget layouts is showing
type Screen string

const (
	ScreenIdle   Screen = "idle"
	ScreenError  Screen = "error"
	ScreenLoaded Screen = "loaded"
)

// State is everything one widget session displays.
//
// A nil Forecast means "no forecast"; an empty non-nil slice is a forecast
// the provider returned with no entries. Forecast has no omitempty so the
// distinction survives a JSON round trip through the session store.
type State struct {
	Query      string             `json:"query"`
	Conditions *CurrentConditions `json:"conditions,omitempty"`
	Forecast   []ForecastPoint    `json:"forecast"`
	Error      string             `json:"error,omitempty"`
	Timezone   string             `json:"timezone,omitempty"`
}

// Screen reports the layout for this state. An error wins over stale data
// left behind by a geolocation denial.
func (s State) Screen() Screen {
	switch {
	case s.Error != "":
		return ScreenError
	case s.Conditions != nil || s.Forecast != nil:
		return ScreenLoaded
	default:
		return ScreenIdle
	}
}

// GeolocationStatus is the outcome of the browser's position query
type GeolocationStatus string

const (
	GeolocationGranted     GeolocationStatus = "granted"
	GeolocationDenied      GeolocationStatus = "denied"
	GeolocationUnsupported GeolocationStatus = "unsupported"
)

// GeolocationResult is what the page reports after asking the browser for a position
type GeolocationResult struct {
	Status GeolocationStatus `json:"status"`
	Coords Coordinates       `json:"coords"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}
