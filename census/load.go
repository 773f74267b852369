package census

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/internal/util"
)

// ErrMissingColumn is returned when the header lacks a required column
var ErrMissingColumn = errors.Wrap(errors.ErrInvalidRequest, "missing column")

// requiredColumns must be present in the header; the remaining metric columns are optional
var requiredColumns = []string{"id", "state", "abbr",
	"poverty", "age", "income", "healthcare", "smokes", "obesity"}

// RequiredColumns returns the header names every data file must contain
func RequiredColumns() []string {
	return append([]string(nil), requiredColumns...)
}

// numericColumns maps header names to record setters
var numericColumns = map[string]func(*Record, float64){
	"id":             func(r *Record, v float64) { r.ID = v },
	"poverty":        func(r *Record, v float64) { r.Poverty = v },
	"povertyMoe":     func(r *Record, v float64) { r.PovertyMoe = v },
	"age":            func(r *Record, v float64) { r.Age = v },
	"ageMoe":         func(r *Record, v float64) { r.AgeMoe = v },
	"income":         func(r *Record, v float64) { r.Income = v },
	"incomeMoe":      func(r *Record, v float64) { r.IncomeMoe = v },
	"healthcare":     func(r *Record, v float64) { r.Healthcare = v },
	"healthcareLow":  func(r *Record, v float64) { r.HealthcareLow = v },
	"healthcareHigh": func(r *Record, v float64) { r.HealthcareHigh = v },
	"obesity":        func(r *Record, v float64) { r.Obesity = v },
	"obesityLow":     func(r *Record, v float64) { r.ObesityLow = v },
	"obesityHigh":    func(r *Record, v float64) { r.ObesityHigh = v },
	"smokes":         func(r *Record, v float64) { r.Smokes = v },
	"smokesLow":      func(r *Record, v float64) { r.SmokesLow = v },
	"smokesHigh":     func(r *Record, v float64) { r.SmokesHigh = v },
}

// Load reads a dataset from a CSV file.
// A load failure is fatal for the caller; there is no partial result.
func Load(path string, logger *zap.SugaredLogger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrap(errors.NewNotFoundError("data file %s", path), "failed to load dataset"),
				"set data.path in am.toml or pass --data",
			)
		}
		return nil, errors.Wrapf(err, "failed to open data file %s", path)
	}
	defer f.Close()

	ds, err := Parse(f, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset from %s", path)
	}
	ds.Source = path
	return ds, nil
}

// Parse reads a dataset from CSV text with a header row.
// Columns are matched by header name. Numeric cells that fail to parse become NaN.
func Parse(r io.Reader, logger *zap.SugaredLogger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "empty data source")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.WithHintf(
				errors.Wrapf(ErrMissingColumn, "%q", col),
				"the header row must name all of: %s", strings.Join(requiredColumns, ", "),
			)
		}
	}

	ds := &Dataset{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", line)
		}

		cell := func(col string) (string, bool) {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return "", false
			}
			return strings.TrimSpace(row[i]), true
		}

		rec := Record{}
		rec.State, _ = cell("state")
		rec.Abbr, _ = cell("abbr")

		for col, set := range numericColumns {
			raw, present := cell(col)
			// ParseFloat accepts "inf" and "Infinity"; those are malformed survey values too
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || !util.IsFinite(v) {
				v = math.NaN()
				if present {
					logger.Debugw("Non-numeric cell parsed as NaN",
						"row", line, "column", col, "value", raw)
				}
			}
			set(&rec, v)
		}
		ds.Records = append(ds.Records, rec)
	}

	logger.Infow("Dataset parsed", "rows", len(ds.Records))
	return ds, nil
}
