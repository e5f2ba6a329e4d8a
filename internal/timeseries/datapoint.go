package timeseries

import (
	"fmt"
	"math"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DataPoint is a single sample of a time series.
// High and low are either both present or both absent.
type DataPoint struct {
	timestamp time.Time
	value     null.Float
	high      null.Float
	low       null.Float
}

// NewDataPoint creates a point without an error band
func NewDataPoint(timestamp time.Time, value null.Float) DataPoint {
	return DataPoint{timestamp: timestamp, value: value}
}

// SetErrorBand sets the high and low bounds together
func (p *DataPoint) SetErrorBand(high, low float64) {
	p.high = null.FloatFrom(high)
	p.low = null.FloatFrom(low)
}

func (p DataPoint) Timestamp() time.Time { return p.timestamp }
func (p DataPoint) Value() null.Float    { return p.value }
func (p DataPoint) High() null.Float     { return p.high }
func (p DataPoint) Low() null.Float      { return p.low }

// HasValue reports whether the point carries a value
func (p DataPoint) HasValue() bool {
	return p.value.Valid
}

// HasErrorBand reports whether high and low are both present
func (p DataPoint) HasErrorBand() bool {
	return p.high.Valid && p.low.Valid
}

// IsFinite reports whether every present number of the point is a finite float
func (p DataPoint) IsFinite() bool {
	for _, f := range []null.Float{p.value, p.high, p.low} {
		if f.Valid && (math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0)) {
			return false
		}
	}
	return true
}

// FormatInvariant writes f with a period separator and only the fractional
// digits the value needs. Absent or non-finite values yield "".
func FormatInvariant(f null.Float) string {
	if !f.Valid || math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0) {
		return ""
	}
	return decimal.NewFromFloat(f.Float64).String()
}

// FormatDisplay formats f for a human reader using the printer's locale.
// Absent values yield "".
func FormatDisplay(p *message.Printer, f null.Float) string {
	if !f.Valid {
		return ""
	}
	if math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0) {
		return fmt.Sprint(f.Float64)
	}
	places := decimalPlaces(f.Float64)
	return p.Sprintf("%v", number.Decimal(f.Float64,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(places)))
}

func decimalPlaces(v float64) int {
	exp := decimal.NewFromFloat(v).Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}
