package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/evyataryagoni/weather-widget/internal/models"
)

func loadedState() models.State {
	return models.State{
		Query: "Jakarta",
		Conditions: &models.CurrentConditions{
			Name:        "Jakarta",
			Country:     "ID",
			Temperature: 30.5,
			Description: "awan mendung",
			Humidity:    74,
		},
		Forecast: []models.ForecastPoint{
			{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Temperature: 28},
			{Time: time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC), Temperature: 31.2},
		},
		Timezone: "UTC",
	}
}

func mustLoad(t *testing.T) {
	t.Helper()
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}
}

func TestLoadTemplates_success(t *testing.T) {
	err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if pageTmpl == nil {
		t.Fatal("LoadTemplates() left pageTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	// Empty FS has no "templates" directory; ParseFS finds no files.
	err := loadTemplatesFromFS(fstest.MapFS{}, "templates")
	if err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS) = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	badFS := fstest.MapFS{
		"templates/page.html":          {Data: []byte("{{ .")},
		"templates/partials/none.html": {Data: []byte("")},
	}
	err := loadTemplatesFromFS(badFS, "templates")
	if err == nil {
		t.Fatal("loadTemplatesFromFS(badFS) = nil; want error")
	}
}

func TestRenderPage_notLoaded(t *testing.T) {
	prev := pageTmpl
	pageTmpl = nil
	t.Cleanup(func() { pageTmpl = prev })

	var buf bytes.Buffer
	err := RenderPage(&buf, Build(models.State{}, time.UTC))
	if err == nil {
		t.Fatal("RenderPage() = nil; want error when templates not loaded")
	}
	if !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("err = %q; want message containing \"not loaded\"", err.Error())
	}
}

func TestBuild_Screens(t *testing.T) {
	tests := []struct {
		name           string
		state          models.State
		wantScreen     models.Screen
		wantError      bool
		wantConditions bool
		wantForecast   bool
	}{
		{"idle", models.State{}, models.ScreenIdle, false, false, false},
		{"error", models.State{Error: models.MsgLocationNotFound}, models.ScreenError, true, false, false},
		{"loaded", loadedState(), models.ScreenLoaded, false, true, true},
		{
			"denied with earlier results",
			func() models.State { s := loadedState(); s.Error = models.MsgLocationDenied; return s }(),
			models.ScreenError, true, true, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Build(tt.state, time.UTC)

			if page.Screen != tt.wantScreen {
				t.Errorf("Screen = %s; want %s", page.Screen, tt.wantScreen)
			}
			if (page.Error != "") != tt.wantError {
				t.Errorf("Error = %q; want set=%v", page.Error, tt.wantError)
			}
			if (page.Conditions != nil) != tt.wantConditions {
				t.Errorf("Conditions set = %v; want %v", page.Conditions != nil, tt.wantConditions)
			}
			if page.ShowForecast != tt.wantForecast {
				t.Errorf("ShowForecast = %v; want %v", page.ShowForecast, tt.wantForecast)
			}
			if (page.Chart != nil) != tt.wantForecast {
				t.Errorf("Chart set = %v; want %v", page.Chart != nil, tt.wantForecast)
			}
		})
	}
}

func TestBuild_ChartUsesReportedTimezone(t *testing.T) {
	state := loadedState()
	state.Timezone = ""
	wib := time.FixedZone("WIB", 7*60*60)

	page := Build(state, wib)

	if got := page.Chart.Labels[0]; got != "07:00" {
		t.Errorf("label = %q; want 07:00 in fallback zone", got)
	}
}

func TestRenderPage_idle(t *testing.T) {
	mustLoad(t)

	var buf bytes.Buffer
	if err := RenderPage(&buf, Build(models.State{}, time.UTC)); err != nil {
		t.Fatalf("RenderPage(idle) = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Aplikasi Cuaca", "Masukkan nama kota", "Cari Cuaca", "geo-button", `data-screen="idle"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, absent := range []string{`class="error"`, `id="conditions"`, `id="forecast"`} {
		if strings.Contains(out, absent) {
			t.Errorf("idle output should not contain %q", absent)
		}
	}
}

func TestRenderPage_loaded(t *testing.T) {
	mustLoad(t)

	var buf bytes.Buffer
	if err := RenderPage(&buf, Build(loadedState(), time.UTC)); err != nil {
		t.Fatalf("RenderPage(loaded) = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Jakarta, ID",
		"Suhu: 30.5°C",
		"Cuaca: awan mendung",
		"Kelembapan: 74%",
		"Prakiraan Cuaca (12 Jam Berikutnya)",
		`value="Jakarta"`,
		`"labels":["00:00","03:00"]`,
		`"data":[28,31.2]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, `class="error"`) {
		t.Error("loaded output should not show an error")
	}
}

func TestRenderPage_error(t *testing.T) {
	mustLoad(t)

	var buf bytes.Buffer
	state := models.State{Query: "Atlantis", Error: models.MsgLocationNotFound}
	if err := RenderPage(&buf, Build(state, time.UTC)); err != nil {
		t.Fatalf("RenderPage(error) = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, models.MsgLocationNotFound) {
		t.Errorf("output missing error message")
	}
	if strings.Contains(out, `id="conditions"`) || strings.Contains(out, `id="forecast"`) {
		t.Error("error output should not show result cards")
	}
}

func TestRenderPage_escapesQuery(t *testing.T) {
	mustLoad(t)

	var buf bytes.Buffer
	state := models.State{Query: `"><script>alert(1)</script>`}
	if err := RenderPage(&buf, Build(state, time.UTC)); err != nil {
		t.Fatalf("RenderPage() = %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("query text was not escaped")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestRenderPage_writeError(t *testing.T) {
	mustLoad(t)

	if err := RenderPage(failingWriter{}, Build(loadedState(), time.UTC)); err == nil {
		t.Fatal("RenderPage(failingWriter) = nil; want error")
	}
}
