package selection

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/censusplot/census"
)

// Tooltip is the hover text for one point under the current selection
type Tooltip struct {
	Title string `json:"title"`
	YLine string `json:"y_line"`
	XLine string `json:"x_line"`
}

// TooltipTitle renders "Smokes (%) vs. In Poverty (%)"
func (s Selection) TooltipTitle() string {
	return TitleCase(s.Y.Label()) + " vs. " + TitleCase(s.X.Label())
}

// Tooltip builds the hover text for a record
func (s Selection) Tooltip(r census.Record) Tooltip {
	return Tooltip{
		Title: s.TooltipTitle(),
		YLine: TitleCase(s.Y.Label()) + ": " + formatValue(r.Value(s.Y)),
		XLine: TitleCase(s.X.Label()) + ": " + formatValue(r.Value(s.X)),
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TitleCase upper-cases the first letter of each space-separated word.
// A word opening with "(" capitalizes the letter after the parenthesis.
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	prefix := ""
	if strings.HasPrefix(w, "(") {
		prefix, w = "(", w[1:]
	}
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return prefix + w
	}
	return prefix + string(unicode.ToUpper(r)) + w[size:]
}
