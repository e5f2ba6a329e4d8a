package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/text/language"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
	"mosjcharts/internal/overrides"
)

func point(datetime string, value float64) models.PointRecord {
	return models.PointRecord{Datetime: datetime, Value: null.FloatFrom(value)}
}

func testParameter() *models.Parameter {
	banded := point("2011-01-01T00:00:00Z", 5)
	banded.High = null.FloatFrom(6)
	banded.Low = null.FloatFrom(4)
	first := point("2010-01-01T00:00:00Z", 4)
	first.High = null.FloatFrom(4.5)
	first.Low = null.FloatFrom(3.5)

	return &models.Parameter{
		Record: models.ParameterRecord{
			ID:           "p-1",
			Titles:       models.Texts{{Lang: "en", Text: "Sea ice extent"}, {Lang: "nb", Text: "Havisutbredelse"}},
			Descriptions: models.Texts{{Lang: "en", Text: "Extent in **March**"}},
		},
		Series: []models.TimeSeriesRecord{
			{
				ID:       "a",
				Titles:   models.Texts{{Lang: "en", Text: "Barents Sea"}},
				Unit:     models.UnitRecord{Symbol: "km²"},
				Accuracy: "year",
				Data: []models.PointRecord{
					point("2010-01-01T00:00:00Z", 1.5),
					point("2011-01-01T00:00:00Z", 2),
					point("2012-01-01T00:00:00Z", 2.5),
				},
			},
			{
				ID:       "b",
				Titles:   models.Texts{{Lang: "en", Text: "Fram Strait"}},
				Unit:     models.UnitRecord{Symbol: "km²"},
				Accuracy: "year",
				Data:     []models.PointRecord{first, banded},
			},
		},
	}
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator(logger.Nop(), charts.DefaultSettings())
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	g.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestBuildCollection(t *testing.T) {
	g := newTestGenerator(t)

	c := g.BuildCollection(testParameter(), language.English)
	if c.Len() != 2 {
		t.Fatalf("Expected 2 series, got %d", c.Len())
	}
	expected := "2010,2011,2012"
	if got := strings.Join(c.Markers(), ","); got != expected {
		t.Errorf("Expected markers %s, got %s", expected, got)
	}
	if !c.Series()[1].IsErrorBand() {
		t.Error("Expected second series to be an error band")
	}
}

func TestTitle(t *testing.T) {
	g := newTestGenerator(t)
	p := testParameter()

	if got := g.Title(p, language.MustParse("nb")); got != "Havisutbredelse" {
		t.Errorf("Expected Norwegian title, got '%s'", got)
	}

	p.Record.Titles = nil
	if got := g.Title(p, language.English); got != "p-1" {
		t.Errorf("Expected title to fall back to the id, got '%s'", got)
	}
}

func TestPage(t *testing.T) {
	g := newTestGenerator(t)

	page, err := g.Page(testParameter(), language.English, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if page.Title != "Sea ice extent" {
		t.Errorf("Expected title 'Sea ice extent', got '%s'", page.Title)
	}
	if page.Chart.Config == "" {
		t.Fatal("Expected chart configuration")
	}
	if page.Warning != "" {
		t.Errorf("Expected no warning for matching accuracies, got '%s'", page.Warning)
	}

	for _, want := range []string{
		`<h2>Sea ice extent</h2>`,
		`<strong>March</strong>`,
		`class="mosj-chart"`,
		`<noscript><img src="snapshot.png"`,
		`<table class="mosj-table">`,
		`Rendered 2025-03-01 12:00 UTC`,
		`data-parameter="p-1"`,
	} {
		if !strings.Contains(page.HTML, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(page.HTML, "mosj-warning") {
		t.Error("Expected no warning paragraph")
	}
}

func TestPageWarnsOnMixedAccuracy(t *testing.T) {
	g := newTestGenerator(t)
	p := testParameter()
	p.Series[1].Accuracy = "month"

	page, err := g.Page(p, language.English, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Warning == "" {
		t.Fatal("Expected accuracy warning")
	}
	if !strings.Contains(page.HTML, `<p class="mosj-warning">`) {
		t.Error("Expected warning paragraph in page")
	}
}

func TestPageEscapesDescriptionHTML(t *testing.T) {
	g := newTestGenerator(t)
	p := testParameter()
	p.Record.Descriptions = models.Texts{{Lang: "en", Text: "Plain <script>alert(1)</script> text"}}

	page, err := g.Page(p, language.English, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(page.HTML, "<script>alert(1)</script>") {
		t.Error("Expected raw HTML in description to be omitted")
	}
}

func TestPageAppliesOverrides(t *testing.T) {
	g := newTestGenerator(t)
	o := overrides.Parse(`{"perSeriesOverrides": {"a": {"name": "Renamed"}}}`, logger.Nop())

	page, err := g.Page(testParameter(), language.English, o)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(page.Chart.Config, `"Renamed"`) {
		t.Error("Expected overridden series name in chart configuration")
	}
}

func TestPageWithoutSeries(t *testing.T) {
	g := newTestGenerator(t)
	p := testParameter()
	p.Series = nil

	page, err := g.Page(p, language.English, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(page.HTML, "<h2>Sea ice extent</h2>") {
		t.Error("Expected page title even without series")
	}

	if _, err := g.Page(nil, language.English, nil); err == nil {
		t.Error("Expected error for nil parameter")
	}
}
