package timeseries

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mosjcharts/internal/logger"
)

var kg = NewDataUnit("kg", "kilogram")

func year(y int) time.Time {
	return time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
}

// yearly builds a year-accuracy series starting at startYear; nil values are gaps
func yearly(id string, unit DataUnit, startYear int, values ...*float64) *TimeSeries {
	points := make([]DataPoint, 0, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		points = append(points, NewDataPoint(year(startYear+i), null.FloatFrom(*v)))
	}
	return NewTimeSeries(id, strings.ToUpper(id), unit, Year(), points)
}

func f(v float64) *float64 { return &v }

func scenarioAB() *Collection {
	a := yearly("a", kg, 2010, f(1), f(2), f(3))
	b := yearly("b", kg, 2011, f(10), f(20), f(30))
	return NewCollection(logger.Nop(), language.English, a, b)
}

func TestCollectionScenarioAB(t *testing.T) {
	c := scenarioAB()

	assert.Equal(t, []string{"2010", "2011", "2012", "2013"}, c.Markers())
	assert.Len(t, c.AxisUnits(), 1)
	assert.True(t, c.AllAccuracyCompatible())

	expectedA := []null.Float{null.FloatFrom(1), null.FloatFrom(2), null.FloatFrom(3), {}}
	expectedB := []null.Float{{}, null.FloatFrom(10), null.FloatFrom(20), null.FloatFrom(30)}
	for i, m := range c.Markers() {
		slots := c.DataPointsForMarker(m)
		require.Len(t, slots, 2)
		assertSlot(t, expectedA[i], slots[0])
		assertSlot(t, expectedB[i], slots[1])
	}
}

func assertSlot(t *testing.T, expected null.Float, got *DataPoint) {
	t.Helper()
	if !expected.Valid {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.Equal(t, expected.Float64, got.Value().Float64)
}

func TestCollectionMarkerUnion(t *testing.T) {
	first := NewTimeSeries("s1", "S1", kg, Year(), []DataPoint{
		NewDataPoint(year(2015), null.FloatFrom(1)),
		NewDataPoint(year(2012), null.FloatFrom(2)),
	})
	second := NewTimeSeries("s2", "S2", kg, Year(), []DataPoint{
		NewDataPoint(year(2012), null.FloatFrom(3)),
		NewDataPoint(year(2001), null.FloatFrom(4)),
		NewDataPoint(year(2015), null.FloatFrom(5)),
	})

	c := NewCollection(logger.Nop(), language.English, first, second)

	// first-seen order, not sorted
	assert.Equal(t, []string{"2015", "2012", "2001"}, c.Markers())
	assert.GreaterOrEqual(t, c.MarkerCount(), first.Len())
	assert.GreaterOrEqual(t, c.MarkerCount(), second.Len())

	for _, s := range c.Series() {
		assert.Subset(t, c.Markers(), s.Markers())
	}
}

func TestCollectionReassemblesSeries(t *testing.T) {
	c := NewCollection(logger.Nop(), language.English,
		yearly("a", kg, 1990, f(1.5), nil, f(-2)),
		yearly("b", DataUnit{ShortForm: "°C"}, 1989, nil, f(0), f(7), f(8)),
		yearly("c", kg, 2000, f(42)),
	)

	for i, s := range c.Series() {
		rebuilt := map[string]float64{}
		for _, m := range c.Markers() {
			slots := c.DataPointsForMarker(m)
			require.Len(t, slots, c.Len())
			if slots[i] != nil {
				rebuilt[m] = slots[i].Value().Float64
			}
		}

		original := map[string]float64{}
		for _, p := range s.Points() {
			original[s.Accuracy().Format(p.Timestamp())] = p.Value().Float64
		}
		assert.Equal(t, original, rebuilt, "series %s", s.ID())
	}
}

func TestCollectionUnknownMarker(t *testing.T) {
	c := scenarioAB()
	slots := c.DataPointsForMarker("1850")
	require.Len(t, slots, 2)
	assert.Nil(t, slots[0])
	assert.Nil(t, slots[1])
}

func TestCollectionUnits(t *testing.T) {
	celsius := NewDataUnit("°C", "degrees Celsius")
	pct := NewDataUnit("%", "percent")
	kgAgain := NewDataUnit("kg", "kilograms (alt)")

	c := NewCollection(logger.Nop(), language.English,
		yearly("a", kg, 2000, f(1)),
		yearly("b", celsius, 2000, f(1)),
		yearly("c", kgAgain, 2000, f(1)),
		yearly("d", pct, 2000, f(1)),
	)

	assert.Equal(t, []DataUnit{kg, celsius, pct}, c.Units())
	assert.Equal(t, []DataUnit{kg, celsius}, c.AxisUnits())
	assert.Equal(t, 0, c.AxisIndex(kgAgain))
	assert.Equal(t, 1, c.AxisIndex(celsius))
	assert.Equal(t, 0, c.AxisIndex(pct), "units without an axis fall back to the first one")
	assert.Len(t, c.Series(), 4)
}

func TestCollectionSkipsNilSeries(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &buf})

	c := NewCollection(log, language.English, nil, yearly("a", kg, 2000, f(1)))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"2000"}, c.Markers())
	assert.Contains(t, buf.String(), "Skipping missing time series")
}

func TestCollectionEmpty(t *testing.T) {
	c := NewCollection(nil, language.English)
	assert.Empty(t, c.Markers())
	assert.Empty(t, c.Series())
	assert.Empty(t, c.AxisUnits())
	assert.True(t, c.AllAccuracyCompatible())
	assert.Empty(t, c.DataPointsForMarker("2000"))
}

func TestCollectionAccuracyCompatibility(t *testing.T) {
	yearSeries := yearly("a", kg, 2000, f(1))
	monthSeries := NewTimeSeries("m", "M", kg, Month(), []DataPoint{
		NewDataPoint(year(2000), null.FloatFrom(1)),
	})

	assert.True(t, NewCollection(nil, language.English, yearSeries).AllAccuracyCompatible())
	assert.True(t, NewCollection(nil, language.English, yearSeries, yearly("b", kg, 2001, f(2))).AllAccuracyCompatible())
	assert.False(t, NewCollection(nil, language.English, yearSeries, monthSeries).AllAccuracyCompatible())

	c := NewCollection(nil, language.English, yearSeries, monthSeries)
	assert.Equal(t, []string{"2000", "2000-06"}, c.Markers())
}

func TestTimeSeriesDuplicateMarkersKeepFirst(t *testing.T) {
	s := NewTimeSeries("d", "D", kg, Year(), []DataPoint{
		NewDataPoint(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), null.FloatFrom(1)),
		NewDataPoint(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), null.FloatFrom(2)),
	})

	assert.Equal(t, 1, s.Len())
	p := s.PointAt("2020")
	require.NotNil(t, p)
	assert.Equal(t, 1.0, p.Value().Float64)
}

func TestTimeSeriesErrorBand(t *testing.T) {
	banded := func(v, high, low float64) DataPoint {
		p := NewDataPoint(year(2000), null.FloatFrom(v))
		p.SetErrorBand(high, low)
		return p
	}

	full := NewTimeSeries("e", "E", kg, Year(), []DataPoint{banded(1, 2, 0)})
	assert.True(t, full.IsErrorBand())

	p2 := NewDataPoint(year(2001), null.FloatFrom(2))
	partial := NewTimeSeries("p", "P", kg, Year(), []DataPoint{banded(1, 2, 0), p2})
	assert.False(t, partial.IsErrorBand())

	empty := NewTimeSeries("x", "X", kg, Year(), nil)
	assert.False(t, empty.IsErrorBand())
}

func TestTimeSeriesReturnsCopies(t *testing.T) {
	s := yearly("a", kg, 2000, f(1), f(2))

	markers := s.Markers()
	markers[0] = "mutated"
	assert.Equal(t, []string{"2000", "2001"}, s.Markers())

	p := s.PointAt("2000")
	require.NotNil(t, p)
	p.SetErrorBand(5, 0)
	assert.False(t, s.PointAt("2000").HasErrorBand())
}

func TestAccuracy(t *testing.T) {
	ts := time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		token    string
		label    string
		expected string
	}{
		{"year", "year", "2021"},
		{"Month", "month", "2021-03"},
		{"day", "day", "2021-03-04"},
		{"hour", "hour", "2021-03-04 05:00"},
		{"MINUTE", "minute", "2021-03-04 05:06"},
		{"second", "second", "2021-03-04 05:06:07"},
		{"dd.MM.yyyy", "literal:dd.MM.yyyy", "04.03.2021"},
		{"yyyy/MMM", "literal:yyyy/MMM", "2021/Mar"},
		{"decade", "literal:decade", "2021-03-04T05:06:07Z"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			a := ParseAccuracy(tt.token)
			assert.Equal(t, tt.label, a.Label())
			assert.Equal(t, tt.expected, a.Format(ts))
		})
	}
}

func TestAccuracyFormatsInUTC(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	ts := time.Date(2021, time.January, 1, 0, 30, 0, 0, oslo)
	assert.Equal(t, "2020", Year().Format(ts))
}

func TestFormatInvariant(t *testing.T) {
	assert.Equal(t, "", FormatInvariant(null.Float{}))
	assert.Equal(t, "1", FormatInvariant(null.FloatFrom(1)))
	assert.Equal(t, "0.125", FormatInvariant(null.FloatFrom(0.125)))
	assert.Equal(t, "-1234.5", FormatInvariant(null.FloatFrom(-1234.5)))
}

func TestFormatDisplay(t *testing.T) {
	en := message.NewPrinter(language.English)
	de := message.NewPrinter(language.German)

	assert.Equal(t, "", FormatDisplay(en, null.Float{}))
	assert.Equal(t, "2.5", FormatDisplay(en, null.FloatFrom(2.5)))
	assert.Equal(t, "2,5", FormatDisplay(de, null.FloatFrom(2.5)))
	assert.Equal(t, "3", FormatDisplay(en, null.FloatFrom(3)))
	assert.Equal(t, "0.125", FormatDisplay(en, null.FloatFrom(0.125)))
}

func TestDataPointFinite(t *testing.T) {
	p := NewDataPoint(year(2000), null.FloatFrom(1))
	assert.True(t, p.IsFinite())
	assert.True(t, NewDataPoint(year(2000), null.Float{}).IsFinite())

	nan := NewDataPoint(year(2000), null.FloatFrom(math.NaN()))
	assert.False(t, nan.IsFinite())
}
