// Package scale maps metric values to chart pixels.
package scale

import (
	"math"
	"strconv"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
)

// ErrNoFiniteValues is returned when a column has nothing to build a domain from
var ErrNoFiniteValues = errors.New("column has no finite values")

// Padding is the multiplicative margin applied to a column's extent.
// The low end is multiplied by Low and the high end by High.
type Padding struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DefaultPadding widens the extent to [min·0.8, max·1.2]
var DefaultPadding = Padding{Low: 0.8, High: 1.2}

// Linear is a monotonic linear map from Domain to Range.
// A scale is a value: selection changes build a new one rather than mutating.
type Linear struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Tick is an axis tick mark
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Pos   float64 `json:"pos"`
}

// ForAxis builds the padded scale for a field on the given axis.
//
//	x: domain [min·Low, max·High] → [0, extent]
//	y: domain [max·High, min·Low] → [0, extent] (pixel y grows downward)
func ForAxis(ds *census.Dataset, f census.Field, axis census.Axis, extent float64, pad Padding) (Linear, error) {
	lo, hi, ok := ds.Extent(f)
	if !ok {
		return Linear{}, errors.Wrapf(ErrNoFiniteValues, "field %s", f)
	}
	if axis == census.AxisX {
		return Linear{Domain: [2]float64{lo * pad.Low, hi * pad.High}, Range: [2]float64{0, extent}}, nil
	}
	return Linear{Domain: [2]float64{hi * pad.High, lo * pad.Low}, Range: [2]float64{0, extent}}, nil
}

// Map converts a domain value to a range value.
// A collapsed domain maps everything to the middle of the range.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	span := d1 - d0
	if span == 0 {
		return r0 + (r1-r0)/2
	}
	return r0 + (v-d0)/span*(r1-r0)
}

// Invert converts a range value back to the domain
func (s Linear) Invert(px float64) float64 {
	inv := Linear{Domain: s.Range, Range: s.Domain}
	return inv.Map(px)
}

// Min returns the smaller domain bound
func (s Linear) Min() float64 {
	return math.Min(s.Domain[0], s.Domain[1])
}

// Max returns the larger domain bound
func (s Linear) Max() float64 {
	return math.Max(s.Domain[0], s.Domain[1])
}

const (
	e10 = 7.0710678118654755 // sqrt(50)
	e5  = 3.1622776601683795 // sqrt(10)
	e2  = 1.4142135623730951 // sqrt(2)
)

// tickIncrement picks a 1-2-5 step for roughly count ticks across [start, stop].
// Negative results encode 1/step for sub-unit steps, which keeps tick values exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// Ticks returns roughly count nicely rounded ticks within the domain, ascending by value
func (s Linear) Ticks(count int) []Tick {
	start, stop := s.Min(), s.Max()
	if count <= 0 || start == stop || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var values []float64
	if inc > 0 {
		lo, hi := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := lo; i <= hi; i++ {
			values = append(values, i*inc)
		}
	} else {
		inv := -inc
		lo, hi := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := lo; i <= hi; i++ {
			values = append(values, i/inv)
		}
	}

	decimals := 0
	if inc < 0 {
		decimals = int(math.Ceil(math.Log10(-inc) - 1e-9))
	}

	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{
			Value: v,
			Label: strconv.FormatFloat(v, 'f', decimals, 64),
			Pos:   s.Map(v),
		}
	}
	return ticks
}
