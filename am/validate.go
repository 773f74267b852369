package am

import "github.com/teranos/censusplot/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Data path is optional - empty falls back to DefaultDataPath

	// Chart geometry: the chart area inside the margins must be positive
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.Newf("chart.width and chart.height must be > 0, got %gx%g", c.Chart.Width, c.Chart.Height)
	}
	m := c.Chart.Margin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.Newf("chart.margin values must be >= 0, got top=%g right=%g bottom=%g left=%g", m.Top, m.Right, m.Bottom, m.Left)
	}
	if err := c.Layout().Validate(); err != nil {
		return errors.Wrap(err, "chart")
	}
	if c.Chart.LabelFontSize <= 0 {
		return errors.Newf("chart.label_font_size must be > 0, got %g", c.Chart.LabelFontSize)
	}
	// Padding must keep low below high so the domain does not collapse
	if c.Chart.Padding.Low >= c.Chart.Padding.High {
		return errors.Newf("chart.padding.low must be < chart.padding.high, got %g >= %g", c.Chart.Padding.Low, c.Chart.Padding.High)
	}

	// Transition duration: 0 = no animation (valid per "zero means zero"), negative = invalid
	if c.Transition.DurationMS < 0 {
		return errors.Newf("transition.duration_ms must be >= 0, got %d", c.Transition.DurationMS)
	}

	if _, err := c.InitialSelection(); err != nil {
		return err
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.WithHint(
			errors.Newf("log.theme %q is not a known theme", c.Log.Theme),
			"use everforest or gruvbox",
		)
	}

	return nil
}
