package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOutliers_NoOutliers(t *testing.T) {
	in := []float64{7, 3, 9, 1, 5, 2, 10, 4, 8, 6}

	out, err := FilterOutliers(in, DefaultOutlierThreshold)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, out)
}

func TestFilterOutliers_DropsExtremeValue(t *testing.T) {
	var in []float64
	for i := 0; i < 15; i++ {
		in = append(in, 1, 2)
	}
	in = append(in, 100)

	out, err := FilterOutliers(in, DefaultOutlierThreshold)
	require.NoError(t, err)
	assert.Len(t, out, 30)
	assert.NotContains(t, out, 100.0)
	assert.True(t, sort.Float64sAreSorted(out))
}

func TestFilterOutliers_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_, err := FilterOutliers(in, DefaultOutlierThreshold)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestFilterOutliers_OutputIsSubMultiset(t *testing.T) {
	in := []float64{-2.5, 1.25, 1.25, 0.5, -7, 3.75, 0.5}
	out, err := FilterOutliers(in, DefaultOutlierThreshold)
	require.NoError(t, err)

	counts := make(map[float64]int)
	for _, v := range in {
		counts[v]++
	}
	for _, v := range out {
		counts[v]--
		assert.GreaterOrEqual(t, counts[v], 0, "value %v appears more often than in input", v)
	}
}

func TestFilterOutliers_Degenerate(t *testing.T) {
	_, err := FilterOutliers([]float64{5, 5, 5}, DefaultOutlierThreshold)
	assert.ErrorIs(t, err, ErrDegenerateDistribution)

	_, err = FilterOutliers([]float64{1}, DefaultOutlierThreshold)
	assert.ErrorIs(t, err, ErrDegenerateDistribution)

	_, err = FilterOutliers(nil, DefaultOutlierThreshold)
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
}

func TestFilterOutliers_DegenerateNonIntegerValues(t *testing.T) {
	for _, v := range []float64{0.1, 2.86, 1.37, -0.3} {
		_, err := FilterOutliers([]float64{v, v, v}, DefaultOutlierThreshold)
		assert.ErrorIs(t, err, ErrDegenerateDistribution, "value %v", v)
	}
}
