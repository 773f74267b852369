// Package regression fits an ordinary least squares line to two metric columns.
//
// The fit uses the closed-form sums
//
//	m  = (n·Sxy − Sx·Sy) / (n·Sxx − Sx²)
//	b  = (Sy − m·Sx) / n
//	r² = ((n·Sxy − Sx·Sy) / sqrt((n·Sxx − Sx²)·(n·Syy − Sy²)))²
//
// Degenerate input never yields NaN: Fit returns the Undefined result together with
// one of the sentinel errors below.
package regression

import (
	"math"
	"sort"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/internal/util"
)

var (
	// ErrEmptyInput is returned when no finite (x, y) pair remains
	ErrEmptyInput = errors.Wrap(errors.ErrInvalidRequest, "no finite points to fit")

	// ErrLengthMismatch is returned when x and y have different lengths
	ErrLengthMismatch = errors.Wrap(errors.ErrInvalidRequest, "x and y lengths differ")

	// ErrZeroVariance is returned when every x value is identical (n·Sxx − Sx² = 0)
	ErrZeroVariance = errors.New("zero variance in x")
)

// varianceTolerance bounds n·Sxx − Sx² relative to n·Sxx below which x is treated as constant
const varianceTolerance = 1e-12

// Point is a vertex of the trend line in data space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is a fitted line. The zero value is the Undefined sentinel.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`

	// Defined is false for the Undefined sentinel (degenerate input)
	Defined bool `json:"defined"`
	// R2Defined is false when y has zero variance; R2 is then reported as 0
	R2Defined bool `json:"r2_defined"`

	N       int `json:"n"`       // pairs used in the fit
	Skipped int `json:"skipped"` // pairs dropped for NaN or ±Inf

	// Points holds one vertex per fitted x, ordered in the visual direction of the fit:
	// ascending x for slope >= 0, descending x for slope < 0.
	Points []Point `json:"points"`
}

// Undefined is the sentinel result returned for degenerate input
var Undefined = Result{}

// Fit computes the OLS line through (xs[i], ys[i]).
// Pairs where either value is NaN or ±Inf are skipped and counted in Result.Skipped.
func Fit(xs, ys []float64) (Result, error) {
	if len(xs) != len(ys) {
		return Undefined, errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(xs), len(ys))
	}

	var n, sx, sy, sxy, sxx, syy float64
	fx := make([]float64, 0, len(xs))
	skipped := 0
	for i := range xs {
		x, y := xs[i], ys[i]
		if !util.IsFinite(x) || !util.IsFinite(y) {
			skipped++
			continue
		}
		n++
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
		syy += y * y
		fx = append(fx, x)
	}

	if n == 0 {
		res := Undefined
		res.Skipped = skipped
		return res, ErrEmptyInput
	}

	denomX := n*sxx - sx*sx
	if denomX <= varianceTolerance*math.Max(1, n*sxx) {
		res := Undefined
		res.N = int(n)
		res.Skipped = skipped
		return res, errors.Wrapf(ErrZeroVariance, "%d points", int(n))
	}

	num := n*sxy - sx*sy
	m := num / denomX
	b := (sy - m*sx) / n

	res := Result{
		Slope:     m,
		Intercept: b,
		Defined:   true,
		N:         int(n),
		Skipped:   skipped,
	}

	denomY := n*syy - sy*sy
	if denomY > varianceTolerance*math.Max(1, n*syy) {
		r := num / math.Sqrt(denomX*denomY)
		res.R2 = r * r
		res.R2Defined = true
	}

	res.Points = linePoints(fx, m, b)
	return res, nil
}

// FitFields fits the dataset's y field against its x field
func FitFields(ds *census.Dataset, x, y census.Field) (Result, error) {
	return Fit(ds.Values(x), ds.Values(y))
}

// linePoints evaluates the line at every x, ordered by the sign of the slope.
// A zero slope orders ascending.
func linePoints(xs []float64, m, b float64) []Point {
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Point{X: x, Y: m*x + b}
	}
	if m < 0 {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].X > pts[j].X })
	} else {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	}
	return pts
}

// Predict evaluates the fitted line at x. Returns NaN for the Undefined result.
func (r Result) Predict(x float64) float64 {
	if !r.Defined {
		return math.NaN()
	}
	return r.Slope*x + r.Intercept
}

// YExtent returns the minimum and maximum y over the line points
func (r Result) YExtent() (lo, hi float64, ok bool) {
	if len(r.Points) == 0 {
		return 0, 0, false
	}
	lo, hi = r.Points[0].Y, r.Points[0].Y
	for _, p := range r.Points[1:] {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi, true
}

// SumSquaredResiduals returns Σ(y − (m·x + b))² over the finite pairs
func SumSquaredResiduals(xs, ys []float64, m, b float64) float64 {
	var ssr float64
	for i := range xs {
		if i >= len(ys) || !util.IsFinite(xs[i]) || !util.IsFinite(ys[i]) {
			continue
		}
		d := ys[i] - (m*xs[i] + b)
		ssr += d * d
	}
	return ssr
}
