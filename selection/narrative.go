package selection

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
)

// ErrNarrative is returned for a malformed narrative override file
var ErrNarrative = errors.Wrap(errors.ErrInvalidRequest, "invalid narrative")

// Narratives maps each (X, Y) pair to its descriptive paragraph
type Narratives map[Selection]string

var defaultNarratives = Narratives{
	{X: census.Poverty, Y: census.Healthcare}: "States with a larger share of residents in poverty " +
		"also tend to have more people without healthcare coverage. The relationship is clear but " +
		"far from perfect: coverage policy differs a great deal between states with similar poverty rates.",
	{X: census.Poverty, Y: census.Smokes}: "Smoking rises with poverty. The highest smoking rates " +
		"cluster among the poorer states, while the states with the least poverty mostly smoke the least.",
	{X: census.Poverty, Y: census.Obesity}: "Obesity follows poverty closely. Poorer states report " +
		"noticeably higher obesity rates, making poverty the strongest single predictor of the three " +
		"obesity comparisons.",
	{X: census.Age, Y: census.Healthcare}: "Median age says little about healthcare coverage. Younger " +
		"states are slightly more likely to lack coverage, but the points scatter widely around the trend.",
	{X: census.Age, Y: census.Smokes}: "Older states smoke a little more on average. The trend is " +
		"shallow and a handful of states sit far from it in both directions.",
	{X: census.Age, Y: census.Obesity}: "There is almost no relationship between median age and " +
		"obesity. The trend line is nearly flat and explains very little of the spread.",
	{X: census.Income, Y: census.Healthcare}: "Higher household income goes with better healthcare " +
		"coverage. Wealthier states have fewer uninsured residents, mirroring the poverty comparison.",
	{X: census.Income, Y: census.Smokes}: "Smoking falls as household income rises. Of the three " +
		"smoking comparisons, income shows one of the steadiest declines across states.",
	{X: census.Income, Y: census.Obesity}: "Obesity drops as median household income climbs. The " +
		"wealthiest states are consistently among the least obese.",
}

// DefaultNarratives returns a copy of the built-in table
func DefaultNarratives() Narratives {
	out := make(Narratives, len(defaultNarratives))
	for k, v := range defaultNarratives {
		out[k] = v
	}
	return out
}

// Lookup returns the paragraph for a selection. Pure: the table is never mutated by lookups.
func (n Narratives) Lookup(s Selection) string {
	return n[s]
}

// Complete verifies every reachable selection has non-empty text
func (n Narratives) Complete() error {
	for _, s := range All() {
		if strings.TrimSpace(n[s]) == "" {
			return errors.Wrapf(ErrNarrative, "missing text for %s", s.Key())
		}
	}
	return nil
}

type narrativeFile struct {
	Narrative []narrativeEntry `toml:"narrative"`
}

type narrativeEntry struct {
	X    string `toml:"x"`
	Y    string `toml:"y"`
	Text string `toml:"text"`
}

// LoadNarratives reads overrides from a TOML file and layers them over the defaults:
//
//	[[narrative]]
//	x = "age"
//	y = "smokes"
//	text = "..."
//
// Pairs not mentioned keep their default text.
func LoadNarratives(path string) (Narratives, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "narrative file %s", path),
				"set data.narrative_file to an existing TOML file or leave it empty",
			)
		}
		return nil, errors.Wrapf(err, "failed to read narrative file %s", path)
	}
	return ParseNarratives(string(data))
}

// ParseNarratives decodes TOML overrides and layers them over the defaults
func ParseNarratives(data string) (Narratives, error) {
	var file narrativeFile
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, errors.Wrap(ErrNarrative, err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrNarrative, "unknown key %q", undecoded[0].String())
	}

	out := DefaultNarratives()
	for i, e := range file.Narrative {
		sel, err := New(census.Field(e.X), census.Field(e.Y))
		if err != nil {
			return nil, errors.Wrapf(err, "narrative entry %d", i+1)
		}
		if strings.TrimSpace(e.Text) == "" {
			return nil, errors.Wrapf(ErrNarrative, "entry %d (%s) has empty text", i+1, sel.Key())
		}
		out[sel] = strings.TrimSpace(e.Text)
	}
	return out, nil
}
