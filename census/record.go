package census

import (
	"math"

	"github.com/teranos/censusplot/internal/util"
)

// Record is one row of the dataset: a single state and its metrics.
// Numeric fields that fail to parse hold NaN.
type Record struct {
	ID    float64 `json:"id"`
	State string  `json:"state"`
	Abbr  string  `json:"abbr"`

	Poverty    float64 `json:"poverty"`
	PovertyMoe float64 `json:"povertyMoe"`
	Age        float64 `json:"age"`
	AgeMoe     float64 `json:"ageMoe"`
	Income     float64 `json:"income"`
	IncomeMoe  float64 `json:"incomeMoe"`

	Healthcare     float64 `json:"healthcare"`
	HealthcareLow  float64 `json:"healthcareLow"`
	HealthcareHigh float64 `json:"healthcareHigh"`
	Obesity        float64 `json:"obesity"`
	ObesityLow     float64 `json:"obesityLow"`
	ObesityHigh    float64 `json:"obesityHigh"`
	Smokes         float64 `json:"smokes"`
	SmokesLow      float64 `json:"smokesLow"`
	SmokesHigh     float64 `json:"smokesHigh"`
}

// Value returns the record's value for a selectable field
func (r Record) Value(f Field) float64 {
	switch f {
	case Poverty:
		return r.Poverty
	case Age:
		return r.Age
	case Income:
		return r.Income
	case Healthcare:
		return r.Healthcare
	case Smokes:
		return r.Smokes
	case Obesity:
		return r.Obesity
	default:
		return math.NaN()
	}
}

// Dataset is the loaded table. It is immutable after loading.
type Dataset struct {
	Records []Record
	Source  string
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Values returns the column for a field, NaN included
func (d *Dataset) Values(f Field) []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Value(f)
	}
	return out
}

// Extent returns the minimum and maximum of a field, ignoring NaN and ±Inf.
// ok is false when the column has no finite values.
func (d *Dataset) Extent(f Field) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range d.Records {
		v := r.Value(f)
		if !util.IsFinite(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		ok = true
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return lo, hi, true
}
