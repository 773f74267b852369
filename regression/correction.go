package regression

import (
	"github.com/teranos/censusplot/internal/util"
)

// Correction aligns the independently computed trend line with the scatter cloud.
//
// The line's own y range generally differs from the data's y range. Scaling the line's
// extremes by dataMax/lineMax and dataMin/lineMin before building its y domain makes the
// line share the scatter's vertical frame. This is a heuristic, not a coordinate
// transform: it only holds while both extremes are non-zero and finite, and a ratio that
// is not finite falls back to 1.
type Correction struct {
	MinRatio float64 `json:"min_ratio"`
	MaxRatio float64 `json:"max_ratio"`
}

// NewCorrection computes the ratios dataMin/lineMin and dataMax/lineMax
func NewCorrection(dataMin, dataMax, lineMin, lineMax float64) Correction {
	return Correction{
		MinRatio: ratioOrOne(dataMin, lineMin),
		MaxRatio: ratioOrOne(dataMax, lineMax),
	}
}

// Apply scales the line's extremes into the data's range
func (c Correction) Apply(lineMin, lineMax float64) (lo, hi float64) {
	return lineMin * c.MinRatio, lineMax * c.MaxRatio
}

func ratioOrOne(num, den float64) float64 {
	r := num / den
	if !util.IsFinite(r) || r == 0 {
		return 1
	}
	return r
}
