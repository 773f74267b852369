package scatter

const (
	// Point and label colors
	defaultPointFill = "lightblue"
	defaultHoverFill = "pink"
	defaultLabelFill = "white"
	defaultTrendLine = "rgba(214, 93, 14, 0.9)" // Orange, readable over lightblue

	defaultFontFamily = "sans-serif"

	// Roughly ten ticks per axis
	defaultTickCount = 10
)
