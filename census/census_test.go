package census_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	cptest "github.com/teranos/censusplot/internal/testing"
)

func TestParse_SampleDataset(t *testing.T) {
	ds, err := census.Parse(strings.NewReader(cptest.SampleCSV), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	require.Equal(t, 8, ds.Len())

	al := ds.Records[0]
	assert.Equal(t, "Alabama", al.State)
	assert.Equal(t, "AL", al.Abbr)
	assert.Equal(t, 1.0, al.ID)
	assert.Equal(t, 19.3, al.Poverty)
	assert.Equal(t, 42830.0, al.Income)
	assert.Equal(t, 13.9, al.Healthcare)
	assert.Equal(t, 12.7, al.HealthcareLow)
	assert.Equal(t, 15.1, al.HealthcareHigh)
	assert.Equal(t, 21.1, al.Smokes)
	assert.Equal(t, 35.0, al.ObesityHigh)
}

func TestParse_MalformedNumbersBecomeNaN(t *testing.T) {
	csv := "id,state,abbr,poverty,age,income,healthcare,smokes,obesity\n" +
		"1,Alpha,AA,n/a,30,,12,abc,20\n"

	ds, err := census.Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	r := ds.Records[0]
	assert.True(t, math.IsNaN(r.Poverty), "unparseable value")
	assert.True(t, math.IsNaN(r.Income), "empty value")
	assert.True(t, math.IsNaN(r.Smokes))
	assert.True(t, math.IsNaN(r.PovertyMoe), "absent optional column")
	assert.Equal(t, 30.0, r.Age)
}

func TestParse_InfinityBecomesNaN(t *testing.T) {
	csv := "id,state,abbr,poverty,age,income,healthcare,smokes,obesity\n" +
		"1,Alpha,AA,inf,+Inf,-Infinity,12,15,20\n"

	ds, err := census.Parse(strings.NewReader(csv), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	r := ds.Records[0]
	assert.True(t, math.IsNaN(r.Poverty))
	assert.True(t, math.IsNaN(r.Age))
	assert.True(t, math.IsNaN(r.Income))
	assert.Equal(t, 12.0, r.Healthcare)

	_, _, ok := ds.Extent(census.Poverty)
	assert.False(t, ok)
}

func TestParse_ColumnsMatchedByName(t *testing.T) {
	csv := "obesity,smokes,healthcare,income,age,poverty,abbr,state,id\n" +
		"20,15,10,50000,40,12,ZZ,Zed,7\n"

	ds, err := census.Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	r := ds.Records[0]
	assert.Equal(t, "Zed", r.State)
	assert.Equal(t, 12.0, r.Poverty)
	assert.Equal(t, 20.0, r.Obesity)
	assert.Equal(t, 7.0, r.ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := census.Parse(strings.NewReader(""), nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = census.Parse(strings.NewReader("id,state,abbr,poverty\n1,A,AA,3\n"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, census.ErrMissingColumn))
	assert.Contains(t, err.Error(), `"age"`)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoad(t *testing.T) {
	path := cptest.WriteFile(t, "data.csv", cptest.SampleCSV)

	ds, err := census.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, 8, ds.Len())

	_, err = census.Load(path+".missing", nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExtent_IgnoresNaN(t *testing.T) {
	ds := cptest.XYDataset(t, census.Age, census.Smokes,
		[]float64{30, math.NaN(), 45, 38},
		[]float64{10, 11, 12, 13})

	lo, hi, ok := ds.Extent(census.Age)
	require.True(t, ok)
	assert.Equal(t, 30.0, lo)
	assert.Equal(t, 45.0, hi)

	withInf := cptest.XYDataset(t, census.Age, census.Smokes,
		[]float64{30, math.Inf(1), 45, math.Inf(-1)},
		[]float64{10, 11, 12, 13})
	lo, hi, ok = withInf.Extent(census.Age)
	require.True(t, ok)
	assert.Equal(t, 30.0, lo)
	assert.Equal(t, 45.0, hi)

	empty := cptest.XYDataset(t, census.Age, census.Smokes,
		[]float64{math.NaN()}, []float64{1})
	_, _, ok = empty.Extent(census.Age)
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	for _, f := range census.XFields {
		assert.Equal(t, census.AxisX, f.Axis(), f)
		assert.NotEmpty(t, f.Label())
	}
	for _, f := range census.YFields {
		assert.Equal(t, census.AxisY, f.Axis(), f)
		assert.NotEmpty(t, f.Label())
	}
	assert.Equal(t, "In Poverty (%)", census.Poverty.Label())
	assert.Equal(t, "Obese (%)", census.Obesity.Label())
	assert.Equal(t, census.YFields, census.FieldsFor(census.AxisY))

	f, err := census.ParseField("income")
	require.NoError(t, err)
	assert.Equal(t, census.Income, f)

	_, err = census.ParseField("height")
	require.Error(t, err)
	assert.True(t, errors.Is(err, census.ErrUnknownField))
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestRecordValue_UnknownField(t *testing.T) {
	r := census.Record{Poverty: 1}
	assert.True(t, math.IsNaN(r.Value(census.Field("height"))))
}
