package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucketWith(year int, pos, neg []float64) YearBucket {
	return YearBucket{Year: year, PositivePercentChanges: pos, NegativePercentChanges: neg}
}

func TestBuildProbabilityTable_PoolsAcrossYears(t *testing.T) {
	buckets := []YearBucket{
		bucketWith(2022, []float64{1, 2, 3, 4, 5}, []float64{-1, -2, -3, -4, -5}),
		bucketWith(2023, []float64{6, 7, 8, 9, 10}, []float64{-6, -7, -8, -9, -10}),
	}

	table, err := BuildProbabilityTable(buckets)
	require.NoError(t, err)

	assert.Equal(t, 8.0, table.Call[70])
	assert.Equal(t, 6.0, table.Call[50])
	assert.Equal(t, 10.0, table.Call[99])
	assert.Equal(t, -8.0, table.Put[70])
	assert.Equal(t, -6.0, table.Put[50])
	assert.Equal(t, -10.0, table.Put[99])
	assert.Equal(t, 5.5, table.OverallAvgPos)
	assert.Equal(t, -5.5, table.OverallAvgNeg)
	assert.Len(t, table.Call, len(ConfidenceLevels))
	assert.Len(t, table.Put, len(ConfidenceLevels))
}

func TestBuildProbabilityTable_NoNegativeChanges(t *testing.T) {
	buckets := []YearBucket{bucketWith(2024, []float64{1, 2, 3}, nil)}

	_, err := BuildProbabilityTable(buckets)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestBuildProbabilityTable_DegenerateSide(t *testing.T) {
	buckets := []YearBucket{bucketWith(2024, []float64{1, 2, 3}, []float64{-4})}

	_, err := BuildProbabilityTable(buckets)
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
}

func TestBuildProbabilityTable_Deterministic(t *testing.T) {
	buckets := []YearBucket{
		bucketWith(2021, []float64{0.4, 2.25, 1.5, 3.1}, []float64{-0.2, -1.75, -4.4}),
		bucketWith(2022, []float64{5.5, 0.75}, []float64{-2.2, -0.9}),
	}

	first, err := BuildProbabilityTable(buckets)
	require.NoError(t, err)
	second, err := BuildProbabilityTable(buckets)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPercentileIndex_InRange(t *testing.T) {
	for n := 1; n <= 250; n++ {
		for _, level := range ConfidenceLevels {
			idx := PercentileIndex(n, level)
			assert.GreaterOrEqual(t, idx, 0)
			assert.LessOrEqual(t, idx, n-1)
		}
	}
}

func TestPercentileIndex_Values(t *testing.T) {
	assert.Equal(t, 7, PercentileIndex(10, 70))
	assert.Equal(t, 9, PercentileIndex(10, 99))
	assert.Equal(t, 9, PercentileIndex(10, 100))
	assert.Equal(t, 0, PercentileIndex(1, 99))
}
