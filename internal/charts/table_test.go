package charts

import (
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/timeseries"
)

func TestTableScenarioAB(t *testing.T) {
	html := newSerializer().Table(collectionAB(), "Mass & more")

	assert.True(t, strings.HasPrefix(html, `<table class="mosj-table">`))
	assert.Contains(t, html, `<caption>Mass &amp; more</caption>`)
	assert.Contains(t, html, `<thead><tr><th></th><th scope="col">A</th><th scope="col">B</th></tr></thead>`)
	assert.Contains(t, html, `<tr><th scope="row">2010</th><td>1</td><td></td></tr>`)
	assert.Contains(t, html, `<tr><th scope="row">2012</th><td>3</td><td>20</td></tr>`)
	assert.Contains(t, html, `<tr><th scope="row">2013</th><td></td><td>30</td></tr>`)
	assert.Equal(t, 4, strings.Count(html, `<th scope="row">`))
	assert.NotContains(t, html, "null")
}

func TestTableDisplayLocale(t *testing.T) {
	c := timeseries.NewCollection(logger.Nop(), language.German, yearly("a", "A", kg, 2000, 2.5))
	html := newSerializer().Table(c, "")
	assert.Contains(t, html, `<td>2,5</td>`)

	c = timeseries.NewCollection(logger.Nop(), language.English, yearly("a", "A", kg, 2000, 2.5))
	html = newSerializer().Table(c, "")
	assert.Contains(t, html, `<td>2.5</td>`)
}

func TestTableErrorBandCells(t *testing.T) {
	c := timeseries.NewCollection(logger.Nop(), language.English,
		banded("e", "E", 2001, [3]float64{5, 4.5, 6}),
	)
	html := newSerializer().Table(c, "")
	assert.Contains(t, html, `<td data-low="4.5" data-high="6">5</td>`)
}

func TestTableEscapesLabels(t *testing.T) {
	s := timeseries.NewTimeSeries("x", "<script>", kg, timeseries.Year(), []timeseries.DataPoint{
		timeseries.NewDataPoint(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), null.FloatFrom(1)),
	})
	html := newSerializer().Table(timeseries.NewCollection(nil, language.English, s), "")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestTableWithoutCollection(t *testing.T) {
	assert.Equal(t, "", newSerializer().Table(nil, "x"))
	assert.Equal(t, "", newSerializer().ParameterTable(nil, "x"))
}

func TestParameterTable(t *testing.T) {
	c := timeseries.NewCollection(logger.Nop(), language.English,
		yearly("a", "A", kg, 2010, 1, 2, 3),
		yearly("t", "T", celsius, 2011, -1.5),
	)
	html := newSerializer().ParameterTable(c, "Parameter")

	assert.Contains(t, html, `<caption>Parameter</caption>`)
	assert.Contains(t, html, `<th scope="col">2010</th><th scope="col">2011</th><th scope="col">2012</th></tr></thead>`)
	assert.Contains(t, html, `<tr><th scope="row">A</th><td class="unit">kg</td><td>1</td><td>2</td><td>3</td></tr>`)
	assert.Contains(t, html, `<tr><th scope="row">T</th><td class="unit">°C</td><td></td><td>-1.5</td><td></td></tr>`)
}
