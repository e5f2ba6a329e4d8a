package charts

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// number is a chart value written as a plain decimal literal, or null when absent
type number null.Float

func (n number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	if !isFinite(n.Float64) {
		return nil, fmt.Errorf("value %v is not a finite number", n.Float64)
	}
	return []byte(decimal.NewFromFloat(n.Float64).String()), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
