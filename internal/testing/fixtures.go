// Package testing provides shared fixtures for censusplot tests.
package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teranos/censusplot/census"
)

// SampleCSV is a small slice of the health-risk dataset with every column populated
const SampleCSV = `id,state,abbr,poverty,povertyMoe,age,ageMoe,income,incomeMoe,healthcare,healthcareLow,healthcareHigh,obesity,obesityLow,obesityHigh,smokes,smokesLow,smokesHigh
1,Alabama,AL,19.3,0.5,38.6,0.2,42830,598,13.9,12.7,15.1,33.5,32.1,35,21.1,19.8,22.5
2,Alaska,AK,11.2,0.9,33.3,0.3,71583,1784,15,13.3,16.6,29.7,27.8,31.6,19.9,18.2,21.6
4,Arizona,AZ,18.2,0.4,36.9,0.1,50068,484,14.4,13.5,15.4,28.9,27.8,30,16.5,15.6,17.4
5,Arkansas,AR,18.9,0.6,37.8,0.2,41995,1077,16.3,14.9,17.7,35.9,34.3,37.5,22.7,21.3,24.2
6,California,CA,16.4,0.2,36.2,0.1,61933,282,14.8,14.3,15.3,24.7,24.1,25.3,11.7,11.3,12.2
8,Colorado,CO,12,0.4,36.6,0.1,63909,570,12.8,11.9,13.7,21.3,20.6,22,17.6,16.8,18.4
9,Connecticut,CT,10.8,0.5,40.6,0.2,70048,907,8.7,7.9,9.6,26.3,25.1,27.5,15.5,14.5,16.6
10,Delaware,DE,12.5,1,39.9,0.3,59716,1631,8.7,7.6,9.9,30.7,28.9,32.4,17.8,16.3,19.4
`

// SampleDataset parses SampleCSV, failing the test on error.
func SampleDataset(t *testing.T) *census.Dataset {
	t.Helper()

	ds, err := census.Parse(strings.NewReader(SampleCSV), nil)
	if err != nil {
		t.Fatalf("Failed to parse sample dataset: %v", err)
	}
	return ds
}

// XYDataset builds a dataset whose x field and y field carry the given values.
// Other metrics are zero.
func XYDataset(t *testing.T, x, y census.Field, xs, ys []float64) *census.Dataset {
	t.Helper()

	if len(xs) != len(ys) {
		t.Fatalf("XYDataset: %d x values but %d y values", len(xs), len(ys))
	}
	ds := &census.Dataset{Source: "fixture"}
	for i := range xs {
		rec := census.Record{ID: float64(i + 1), State: "State", Abbr: "S"}
		setField(&rec, x, xs[i])
		setField(&rec, y, ys[i])
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

func setField(rec *census.Record, f census.Field, v float64) {
	switch f {
	case census.Poverty:
		rec.Poverty = v
	case census.Age:
		rec.Age = v
	case census.Income:
		rec.Income = v
	case census.Healthcare:
		rec.Healthcare = v
	case census.Smokes:
		rec.Smokes = v
	case census.Obesity:
		rec.Obesity = v
	}
}

// WriteFile writes content to name inside a per-test temp dir and returns the path.
// Automatically cleaned up via t.TempDir().
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
