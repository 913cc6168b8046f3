package view

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/chart"
	"github.com/evyataryagoni/weather-widget/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Title is the page heading and document title
const Title = "Aplikasi Cuaca"

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(templatesFS, "templates")
}

// Page is the view model for the widget. It is derived entirely from a
// models.State and holds nothing of its own.
type Page struct {
	Title  string
	Screen models.Screen

	// Input and both action buttons are always rendered
	Query string

	Error        string
	Conditions   *models.CurrentConditions
	ShowForecast bool
	Chart        *chart.Chart
}

// Build derives the page for state. Chart labels use the zone the browser
// reported, falling back to fallback when it is missing or unknown.
func Build(state models.State, fallback *time.Location) *Page {
	loc := chart.ResolveLocation(state.Timezone, fallback)
	return &Page{
		Title:        Title,
		Screen:       state.Screen(),
		Query:        state.Query,
		Error:        state.Error,
		Conditions:   state.Conditions,
		ShowForecast: state.Forecast != nil,
		Chart:        chart.Build(state.Forecast, loc),
	}
}

// RenderPage executes the full widget page into w.
func RenderPage(w io.Writer, page *Page) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call view.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "page.html", page)
}
