package scatter

import (
	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/scale"
)

// Margin is the space between the SVG edge and the chart area
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout is the geometry of the chart
type Layout struct {
	Width         float64       `json:"width"`  // SVG width
	Height        float64       `json:"height"` // SVG height
	Margin        Margin        `json:"margin"`
	PointRadius   float64       `json:"point_radius"`
	LabelFontSize float64       `json:"label_font_size"`
	Padding       scale.Padding `json:"padding"`
	TickCount     int           `json:"tick_count"`
}

// DefaultLayout is a 960×600 SVG with room below and left for the clickable labels
func DefaultLayout() Layout {
	return Layout{
		Width:         960,
		Height:        600,
		Margin:        Margin{Top: 20, Right: 20, Bottom: 100, Left: 100},
		PointRadius:   20,
		LabelFontSize: 10,
		Padding:       scale.DefaultPadding,
		TickCount:     defaultTickCount,
	}
}

// ChartWidth is the width of the plotting area inside the margins
func (l Layout) ChartWidth() float64 {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// ChartHeight is the height of the plotting area inside the margins
func (l Layout) ChartHeight() float64 {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}

// extent returns the pixel extent for an axis scale
func (l Layout) extent(a census.Axis) float64 {
	if a == census.AxisX {
		return l.ChartWidth()
	}
	return l.ChartHeight()
}

// Validate checks the layout leaves a positive chart area
func (l Layout) Validate() error {
	if l.ChartWidth() <= 0 || l.ChartHeight() <= 0 {
		return errors.Newf("chart area is %gx%g; margins exceed the SVG size", l.ChartWidth(), l.ChartHeight())
	}
	if l.PointRadius <= 0 {
		return errors.Newf("point radius must be positive, got %g", l.PointRadius)
	}
	if l.Padding.Low <= 0 || l.Padding.High <= 0 {
		return errors.Newf("padding factors must be positive, got %g/%g", l.Padding.Low, l.Padding.High)
	}
	if l.TickCount <= 0 {
		return errors.Newf("tick count must be positive, got %d", l.TickCount)
	}
	return nil
}

func (l Layout) style() Style {
	return Style{
		PointFill:  defaultPointFill,
		HoverFill:  defaultHoverFill,
		LabelFill:  defaultLabelFill,
		FontFamily: defaultFontFamily,
		FontSize:   l.LabelFontSize,
		Radius:     l.PointRadius,
		TrendColor: defaultTrendLine,
	}
}
