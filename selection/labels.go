package selection

import (
	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
)

// ErrLabelState is returned when an axis does not have exactly one active label
var ErrLabelState = errors.New("axis must have exactly one active label")

// LabelState is the styling of one clickable axis label
type LabelState struct {
	Field  census.Field `json:"field"`
	Axis   string       `json:"axis"`
	Text   string       `json:"text"`
	Index  int          `json:"index"` // position within its axis group
	Active bool         `json:"active"`
}

// Class returns the CSS class the label carries
func (l LabelState) Class() string {
	if l.Active {
		return "active"
	}
	return "inactive"
}

// Labels returns the six label states: X labels first, then Y, each in label order
func (s Selection) Labels() []LabelState {
	out := make([]LabelState, 0, len(census.XFields)+len(census.YFields))
	for _, a := range []census.Axis{census.AxisX, census.AxisY} {
		for i, f := range census.FieldsFor(a) {
			out = append(out, LabelState{
				Field:  f,
				Axis:   a.String(),
				Text:   f.Label(),
				Index:  i,
				Active: s.Field(a) == f,
			})
		}
	}
	return out
}

// CheckLabels verifies exactly one active label per axis
func CheckLabels(states []LabelState) error {
	active := map[string]int{}
	for _, l := range states {
		if l.Active {
			active[l.Axis]++
		}
	}
	for _, a := range []census.Axis{census.AxisX, census.AxisY} {
		if n := active[a.String()]; n != 1 {
			return errors.Wrapf(ErrLabelState, "%s axis has %d", a, n)
		}
	}
	return nil
}
