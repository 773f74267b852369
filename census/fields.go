package census

import (
	"github.com/teranos/censusplot/errors"
)

// Axis identifies one of the two chart axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// MarshalText encodes the axis as "x" or "y"
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Field is a selectable metric. Three fields drive the X axis and three drive the Y axis.
type Field string

const (
	Poverty    Field = "poverty"
	Age        Field = "age"
	Income     Field = "income"
	Healthcare Field = "healthcare"
	Smokes     Field = "smokes"
	Obesity    Field = "obesity"
)

// ErrUnknownField is returned when a name does not match any selectable field
var ErrUnknownField = errors.Wrap(errors.ErrInvalidRequest, "unknown field")

// XFields lists the X-axis candidates in label order
var XFields = []Field{Poverty, Age, Income}

// YFields lists the Y-axis candidates in label order
var YFields = []Field{Healthcare, Smokes, Obesity}

var fieldLabels = map[Field]string{
	Poverty:    "In Poverty (%)",
	Age:        "Age (Median)",
	Income:     "Household Income (Median)",
	Healthcare: "Lacks Healthcare (%)",
	Smokes:     "Smokes (%)",
	Obesity:    "Obese (%)",
}

// Label returns the axis label text shown for the field
func (f Field) Label() string {
	return fieldLabels[f]
}

// Axis returns the axis the field belongs to
func (f Field) Axis() Axis {
	switch f {
	case Healthcare, Smokes, Obesity:
		return AxisY
	default:
		return AxisX
	}
}

// Valid reports whether f is one of the six selectable fields
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// FieldsFor returns the candidate fields for an axis
func FieldsFor(a Axis) []Field {
	if a == AxisX {
		return XFields
	}
	return YFields
}

// ParseField resolves a field name, returning ErrUnknownField for anything else
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !f.Valid() {
		return "", errors.WithHint(
			errors.Wrapf(ErrUnknownField, "%q", name),
			"valid fields: poverty, age, income, healthcare, smokes, obesity",
		)
	}
	return f, nil
}
