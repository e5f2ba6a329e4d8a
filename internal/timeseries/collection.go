package timeseries

import (
	"github.com/StudioSol/set"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mosjcharts/internal/logger"
)

// MaxAxisUnits is the number of distinct units that get their own y-axis
const MaxAxisUnits = 2

// Collection aligns several series on one ordered list of time markers.
// The marker list is the union of every series' markers in first-seen order.
type Collection struct {
	locale  language.Tag
	markers []string
	series  []*TimeSeries
	units   []DataUnit
}

// NewCollection aligns the given series. Nil series are skipped.
func NewCollection(log *logger.Logger, locale language.Tag, series ...*TimeSeries) *Collection {
	if log == nil {
		log = logger.Nop()
	}
	c := &Collection{locale: locale}

	markers := set.NewLinkedHashSetString()
	for i, s := range series {
		if s == nil {
			log.Error("Skipping missing time series", nil, logger.Fields{"position": i})
			continue
		}
		c.series = append(c.series, s)
		for _, m := range s.markers {
			markers.Add(m)
		}
	}
	for m := range markers.Iter() {
		c.markers = append(c.markers, m)
	}

	c.units = lo.UniqBy(lo.Map(c.series, func(s *TimeSeries, _ int) DataUnit {
		return s.Unit()
	}), func(u DataUnit) string {
		return u.ShortForm
	})

	log.Debug("Built time series collection", logger.Fields{
		"series":  len(c.series),
		"markers": len(c.markers),
		"units":   len(c.units),
	})
	return c
}

// Locale is the display locale the collection was built for
func (c *Collection) Locale() language.Tag {
	return c.locale
}

// Printer formats numbers for the collection's display locale
func (c *Collection) Printer() *message.Printer {
	return message.NewPrinter(c.locale)
}

// Markers returns the aligned marker labels
func (c *Collection) Markers() []string {
	out := make([]string, len(c.markers))
	copy(out, c.markers)
	return out
}

// Series returns the member series in collection order
func (c *Collection) Series() []*TimeSeries {
	out := make([]*TimeSeries, len(c.series))
	copy(out, c.series)
	return out
}

func (c *Collection) Len() int         { return len(c.series) }
func (c *Collection) MarkerCount() int { return len(c.markers) }

// Units returns every distinct unit, first-seen order
func (c *Collection) Units() []DataUnit {
	out := make([]DataUnit, len(c.units))
	copy(out, c.units)
	return out
}

// AxisUnits returns the units that get a y-axis, at most MaxAxisUnits
func (c *Collection) AxisUnits() []DataUnit {
	n := len(c.units)
	if n > MaxAxisUnits {
		n = MaxAxisUnits
	}
	out := make([]DataUnit, n)
	copy(out, c.units[:n])
	return out
}

// AxisIndex is the y-axis a unit is drawn against. Units without an axis use 0.
func (c *Collection) AxisIndex(unit DataUnit) int {
	_, idx, ok := lo.FindIndexOf(c.AxisUnits(), func(u DataUnit) bool {
		return u.Equal(unit)
	})
	if !ok {
		return 0
	}
	return idx
}

// AllAccuracyCompatible is true when every series shares one accuracy label
func (c *Collection) AllAccuracyCompatible() bool {
	labels := lo.Uniq(lo.Map(c.series, func(s *TimeSeries, _ int) string {
		return s.Accuracy().Label()
	}))
	return len(labels) <= 1
}

// DataPointsForMarker returns one slot per series; slot i is series i's point
// at marker or nil when that series has nothing there.
func (c *Collection) DataPointsForMarker(marker string) []*DataPoint {
	out := make([]*DataPoint, len(c.series))
	for i, s := range c.series {
		out[i] = s.PointAt(marker)
	}
	return out
}
