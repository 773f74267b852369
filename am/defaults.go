package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/render"
	"github.com/teranos/censusplot/scale"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

// DefaultDataPath is the bundled survey CSV
const DefaultDataPath = "testdata/data.csv"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	layout := scatter.DefaultLayout()

	// Data defaults
	v.SetDefault("data.path", DefaultDataPath)
	v.SetDefault("data.narrative_file", "")

	// Chart geometry, shared with scatter.DefaultLayout
	v.SetDefault("chart.width", layout.Width)
	v.SetDefault("chart.height", layout.Height)
	v.SetDefault("chart.margin.top", layout.Margin.Top)
	v.SetDefault("chart.margin.right", layout.Margin.Right)
	v.SetDefault("chart.margin.bottom", layout.Margin.Bottom)
	v.SetDefault("chart.margin.left", layout.Margin.Left)
	v.SetDefault("chart.point_radius", layout.PointRadius)
	v.SetDefault("chart.label_font_size", layout.LabelFontSize)
	v.SetDefault("chart.padding.low", scale.DefaultPadding.Low)
	v.SetDefault("chart.padding.high", scale.DefaultPadding.High)
	v.SetDefault("chart.tick_count", layout.TickCount)

	// Initial selection
	v.SetDefault("selection.x", string(selection.Default.X))
	v.SetDefault("selection.y", string(selection.Default.Y))

	v.SetDefault("transition.duration_ms", render.DefaultDuration.Milliseconds())

	v.SetDefault("output.page", "out/index.html")
	v.SetDefault("output.export", "out/chart.svg")

	v.SetDefault("log.theme", "everforest")
	v.SetDefault("log.json", false)
}

// BindEnvVars explicitly binds the settings most often overridden per run
func BindEnvVars(v *viper.Viper) {
	for key, name := range envAliases {
		v.BindEnv(key, name)
	}
}

// Layout converts the chart section to a scatter layout
func (c *Config) Layout() scatter.Layout {
	return scatter.Layout{
		Width:  c.Chart.Width,
		Height: c.Chart.Height,
		Margin: scatter.Margin{
			Top:    c.Chart.Margin.Top,
			Right:  c.Chart.Margin.Right,
			Bottom: c.Chart.Margin.Bottom,
			Left:   c.Chart.Margin.Left,
		},
		PointRadius:   c.Chart.PointRadius,
		LabelFontSize: c.Chart.LabelFontSize,
		Padding:       scale.Padding{Low: c.Chart.Padding.Low, High: c.Chart.Padding.High},
		TickCount:     c.Chart.TickCount,
	}
}

// InitialSelection parses the selection section
func (c *Config) InitialSelection() (selection.Selection, error) {
	x, err := census.ParseField(c.Selection.X)
	if err != nil {
		return selection.Selection{}, errors.Wrap(err, "selection.x")
	}
	y, err := census.ParseField(c.Selection.Y)
	if err != nil {
		return selection.Selection{}, errors.Wrap(err, "selection.y")
	}
	sel, err := selection.New(x, y)
	if err != nil {
		return selection.Selection{}, errors.WithHint(err, "selection.x takes poverty, age or income; selection.y takes healthcare, smokes or obesity")
	}
	return sel, nil
}

// TransitionDuration returns the shared step duration
func (c *Config) TransitionDuration() time.Duration {
	return time.Duration(c.Transition.DurationMS) * time.Millisecond
}

// LoopConfig builds the render loop configuration
func (c *Config) LoopConfig() (render.LoopConfig, error) {
	sel, err := c.InitialSelection()
	if err != nil {
		return render.LoopConfig{}, err
	}
	return render.LoopConfig{Initial: sel, Duration: c.TransitionDuration()}, nil
}

// GetDataPath returns the configured CSV path
func (c *Config) GetDataPath() string {
	if c.Data.Path == "" {
		return DefaultDataPath
	}
	return c.Data.Path
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return "everforest"
	}
	return c.Log.Theme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Data: %s, Chart: %gx%g, Selection: %s/%s, Transition: %dms}",
		c.GetDataPath(), c.Chart.Width, c.Chart.Height, c.Selection.X, c.Selection.Y, c.Transition.DurationMS)
}
