package regression

import (
	"strconv"
	"strings"
)

// UndefinedText is shown in place of a coefficient that cannot be computed
const UndefinedText = "undefined"

// formatCoef renders a coefficient with four significant digits
func formatCoef(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// EquationText renders the fitted line as "y = 0.5x + 3".
// The Undefined result renders as "y = undefined".
func (r Result) EquationText() string {
	if !r.Defined {
		return "y = " + UndefinedText
	}
	var b strings.Builder
	b.WriteString("y = ")
	b.WriteString(formatCoef(r.Slope))
	b.WriteString("x")
	switch {
	case r.Intercept < 0:
		b.WriteString(" - ")
		b.WriteString(formatCoef(-r.Intercept))
	default:
		b.WriteString(" + ")
		b.WriteString(formatCoef(r.Intercept))
	}
	return b.String()
}

// R2Text renders the coefficient of determination as "R² = 0.2257"
func (r Result) R2Text() string {
	if !r.Defined || !r.R2Defined {
		return "R² = " + UndefinedText
	}
	return "R² = " + strconv.FormatFloat(r.R2, 'f', 4, 64)
}
