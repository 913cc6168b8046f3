// Package chart turns a forecast into the labels/series pair the browser's
// Chart.js line plot consumes.
package chart

import (
	"time"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

// Dataset styling
const (
	DatasetLabel    = "Suhu (°C)"
	BorderColor     = "#60A5FA"
	BackgroundColor = "rgba(96, 165, 250, 0.2)"
	Tension         = 0.4
)

// LabelLayout renders a two-digit hour and minute
const LabelLayout = "15:04"

// Dataset is one plotted series, shaped for Chart.js
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Tension         float64   `json:"tension"`
}

// Chart is the Chart.js "data" object: labels aligned by index with each dataset
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Build maps each forecast point to an hour:minute label in loc and its
// temperature. A nil forecast has no chart. loc defaults to time.Local.
func Build(forecast []models.ForecastPoint, loc *time.Location) *Chart {
	if forecast == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	labels := make([]string, len(forecast))
	temps := make([]float64, len(forecast))
	for i, p := range forecast {
		labels[i] = p.Time.In(loc).Format(LabelLayout)
		temps[i] = p.Temperature
	}

	return &Chart{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           DatasetLabel,
			Data:            temps,
			BorderColor:     BorderColor,
			BackgroundColor: BackgroundColor,
			Tension:         Tension,
		}},
	}
}

// ResolveLocation loads an IANA zone name such as "Asia/Jakarta".
// Empty or unknown names give fallback.
func ResolveLocation(name string, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.Local
	}
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
