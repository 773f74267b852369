package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Selection and rendering
	FieldX          = "x"
	FieldY          = "y"
	FieldAxis       = "axis"
	FieldStep       = "step"
	FieldTransition = "transition_id"
	FieldSeq        = "seq"

	// Regression
	FieldSlope     = "slope"
	FieldIntercept = "intercept"
	FieldR2        = "r2"

	// Data
	FieldRows    = "rows"
	FieldSkipped = "skipped"
	FieldRow     = "row"
	FieldColumn  = "column"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Files and paths
	FieldFile   = "file"
	FieldFormat = "format"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	loop := render.NewLoop(ds, layout, applier, logger.ComponentLogger("render.loop"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
