// Package selection holds the active (X, Y) field pair and everything derived purely from it:
// label states, narrative text and tooltip titles.
package selection

import (
	"fmt"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
)

// ErrWrongAxis is returned when a field is placed on the axis it does not belong to
var ErrWrongAxis = errors.Wrap(errors.ErrInvalidRequest, "field not selectable on this axis")

// Selection is the active field per axis. It is a value: changes return a new Selection.
type Selection struct {
	X census.Field `json:"x"`
	Y census.Field `json:"y"`
}

// Default is the selection shown on first load
var Default = Selection{X: census.Poverty, Y: census.Healthcare}

// New builds a validated selection
func New(x, y census.Field) (Selection, error) {
	s := Selection{X: x, Y: y}
	if err := s.Validate(); err != nil {
		return Selection{}, err
	}
	return s, nil
}

// Validate checks that X holds an X field and Y holds a Y field
func (s Selection) Validate() error {
	if _, err := census.ParseField(string(s.X)); err != nil {
		return errors.Wrap(err, "x")
	}
	if _, err := census.ParseField(string(s.Y)); err != nil {
		return errors.Wrap(err, "y")
	}
	if s.X.Axis() != census.AxisX {
		return errors.Wrapf(ErrWrongAxis, "%s on x", s.X)
	}
	if s.Y.Axis() != census.AxisY {
		return errors.Wrapf(ErrWrongAxis, "%s on y", s.Y)
	}
	return nil
}

// Field returns the active field for an axis
func (s Selection) Field(a census.Axis) census.Field {
	if a == census.AxisX {
		return s.X
	}
	return s.Y
}

// With activates f on its own axis. changed is false when f was already active.
func (s Selection) With(f census.Field) (next Selection, changed bool) {
	if f.Axis() == census.AxisX {
		return s.WithX(f)
	}
	return s.WithY(f)
}

// WithX replaces the X field
func (s Selection) WithX(f census.Field) (Selection, bool) {
	if s.X == f {
		return s, false
	}
	s.X = f
	return s, true
}

// WithY replaces the Y field
func (s Selection) WithY(f census.Field) (Selection, bool) {
	if s.Y == f {
		return s, false
	}
	s.Y = f
	return s, true
}

// Key is a stable identifier such as "poverty/healthcare"
func (s Selection) Key() string {
	return fmt.Sprintf("%s/%s", s.X, s.Y)
}

func (s Selection) String() string {
	return fmt.Sprintf("%s vs. %s", s.Y, s.X)
}

// All returns the nine reachable selections, X-major in label order
func All() []Selection {
	out := make([]Selection, 0, len(census.XFields)*len(census.YFields))
	for _, x := range census.XFields {
		for _, y := range census.YFields {
			out = append(out, Selection{X: x, Y: y})
		}
	}
	return out
}
