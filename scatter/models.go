package scatter

import (
	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/regression"
	"github.com/teranos/censusplot/scale"
	"github.com/teranos/censusplot/selection"
)

// Frame is the complete visual state of the chart for one selection.
// Everything the browser draws is precomputed here; the page script only applies it.
type Frame struct {
	Selection selection.Selection    `json:"selection"`
	Layout    Layout                 `json:"layout"`
	Style     Style                  `json:"style"`
	XAxis     AxisFrame              `json:"x_axis"`
	YAxis     AxisFrame              `json:"y_axis"`
	Points    []Point                `json:"points"`
	Labels    []PointLabel           `json:"point_labels"`
	Trend     Trend                  `json:"trend"`
	Narrative string                 `json:"narrative"`
	AxisLabel []selection.LabelState `json:"axis_labels"`
	Tooltips  []selection.Tooltip    `json:"tooltips"`
	Meta      Meta                   `json:"meta"`
}

// AxisFrame is one axis: its active field, scale and tick marks
type AxisFrame struct {
	Field census.Field `json:"field"`
	Label string       `json:"label"`
	Scale scale.Linear `json:"scale"`
	Ticks []scale.Tick `json:"ticks"`
}

// Point is one state's marker in chart-area pixels
type Point struct {
	Index  int     `json:"index"`
	Abbr   string  `json:"abbr"`
	State  string  `json:"state"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Hidden bool    `json:"hidden,omitempty"` // x or y value missing
}

// PointLabel is the abbreviation drawn on top of a point
type PointLabel struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Hidden bool    `json:"hidden,omitempty"`
}

// Pixel is a chart-area coordinate
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trend is the regression overlay
type Trend struct {
	Fit        regression.Result     `json:"fit"`
	Correction regression.Correction `json:"correction"`
	YScale     scale.Linear          `json:"y_scale"` // the line's own vertical scale
	Path       []Pixel               `json:"path"`
	Equation   string                `json:"equation"`
	R2         string                `json:"r2"`
}

// Meta contains metadata about the frame
type Meta struct {
	Stats  Stats             `json:"stats"`
	Config map[string]string `json:"config"`
}

// Stats provides frame statistics
type Stats struct {
	Rows    int `json:"rows"`
	Plotted int `json:"plotted"`
	Skipped int `json:"skipped,omitempty"`
}

// Style holds the fixed presentation attributes the page and exporter share
type Style struct {
	PointFill  string  `json:"point_fill"`
	HoverFill  string  `json:"hover_fill"`
	LabelFill  string  `json:"label_fill"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Radius     float64 `json:"radius"`
	TrendColor string  `json:"trend_color"`
}
