package grading

import (
	"math"

	"github.com/shopspring/decimal"
)

// round1 rounds half away from zero to one decimal place, the precision every displayed
// score and GPA uses.
func round1(v float64) float64 {
	return roundTo(v, 1)
}

func roundTo(v float64, places int32) float64 {
	// decimal panics on non-finite input
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
