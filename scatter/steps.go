package scatter

import (
	"github.com/teranos/censusplot/census"
)

// Step is one stage of the selection-change pipeline. Steps always run in declaration
// order and each may read what earlier steps produced.
type Step int

const (
	StepSelect      Step = iota + 1 // record the new active field
	StepScale                       // rebuild the changed axis scale
	StepAxis                        // move axis ticks to the new scale
	StepPoints                      // move points along the changed axis
	StepPointLabels                 // re-place the abbreviations on the moved points
	StepTrend                       // refit the regression and redraw line, equation and R²
	StepNarrative                   // swap the narrative paragraph
	StepLabelStyle                  // restyle the six axis labels
	StepTooltip                     // rebind hover text to the current fields
)

// Steps lists the pipeline in execution order
var Steps = []Step{
	StepSelect,
	StepScale,
	StepAxis,
	StepPoints,
	StepPointLabels,
	StepTrend,
	StepNarrative,
	StepLabelStyle,
	StepTooltip,
}

var stepNames = map[Step]string{
	StepSelect:      "select",
	StepScale:       "scale",
	StepAxis:        "axis",
	StepPoints:      "points",
	StepPointLabels: "point_labels",
	StepTrend:       "trend",
	StepNarrative:   "narrative",
	StepLabelStyle:  "label_style",
	StepTooltip:     "tooltip",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the step by name
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Animated reports whether the step's visual change is tweened over the transition duration
func (s Step) Animated() bool {
	switch s {
	case StepAxis, StepPoints, StepPointLabels, StepTrend:
		return true
	default:
		return false
	}
}

// Update is the output of one pipeline step
type Update struct {
	Step     Step          `json:"step"`
	Axes     []census.Axis `json:"axes"`
	Animated bool          `json:"animated"`
	Detail   string        `json:"detail"`
}
