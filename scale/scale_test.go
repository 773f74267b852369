package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	cptest "github.com/teranos/censusplot/internal/testing"
)

func TestForAxis_Padding(t *testing.T) {
	ds := cptest.XYDataset(t, census.Poverty, census.Healthcare,
		[]float64{10, 20, 15}, []float64{5, 25, 10})

	x, err := ForAxis(ds, census.Poverty, census.AxisX, 840, DefaultPadding)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, x.Domain[0], 1e-12)
	assert.InDelta(t, 24.0, x.Domain[1], 1e-12)
	assert.Equal(t, [2]float64{0, 840}, x.Range)

	y, err := ForAxis(ds, census.Healthcare, census.AxisY, 480, DefaultPadding)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, y.Domain[0], 1e-12, "y domain starts at padded max")
	assert.InDelta(t, 4.0, y.Domain[1], 1e-12)
	assert.Equal(t, [2]float64{0, 480}, y.Range)

	// Larger values sit higher on screen
	assert.Less(t, y.Map(25), y.Map(5))
}

func TestForAxis_NoFiniteValues(t *testing.T) {
	ds := cptest.XYDataset(t, census.Age, census.Smokes,
		[]float64{math.NaN(), math.NaN()}, []float64{1, 2})
	_, err := ForAxis(ds, census.Age, census.AxisX, 100, DefaultPadding)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFiniteValues))
}

func TestMapInvert(t *testing.T) {
	s := Linear{Domain: [2]float64{10, 30}, Range: [2]float64{0, 200}}
	assert.Equal(t, 0.0, s.Map(10))
	assert.Equal(t, 200.0, s.Map(30))
	assert.Equal(t, 100.0, s.Map(20))
	assert.Equal(t, 20.0, s.Invert(100))

	collapsed := Linear{Domain: [2]float64{5, 5}, Range: [2]float64{0, 200}}
	assert.Equal(t, 100.0, collapsed.Map(5))

	assert.Equal(t, 10.0, s.Min())
	assert.Equal(t, 30.0, s.Max())
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name   string
		domain [2]float64
		count  int
		want   []string
	}{
		{"unit steps", [2]float64{0, 10}, 10, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
		{"twos", [2]float64{8.64, 23.16}, 10, []string{"10", "12", "14", "16", "18", "20", "22"}},
		{"reversed domain", [2]float64{30, 4}, 5, []string{"5", "10", "15", "20", "25", "30"}},
		{"fractional", [2]float64{0, 1}, 5, []string{"0.0", "0.2", "0.4", "0.6", "0.8", "1.0"}},
		{"thousands", [2]float64{33596, 85900}, 5, []string{"40000", "50000", "60000", "70000", "80000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Linear{Domain: tt.domain, Range: [2]float64{0, 100}}
			ticks := s.Ticks(tt.count)
			labels := make([]string, len(ticks))
			for i, tk := range ticks {
				labels[i] = tk.Label
				assert.InDelta(t, s.Map(tk.Value), tk.Pos, 1e-9)
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestTicks_Degenerate(t *testing.T) {
	assert.Nil(t, Linear{Domain: [2]float64{3, 3}}.Ticks(10))
	assert.Nil(t, Linear{Domain: [2]float64{0, 1}}.Ticks(0))
	assert.Nil(t, Linear{Domain: [2]float64{math.NaN(), 1}}.Ticks(5))
}
