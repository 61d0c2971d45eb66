package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ConsecutivePairs(t *testing.T) {
	raw := RawTimeSeries{
		"2024-01-03": "102",
		"2024-01-01": "100",
		"2024-01-02": "105",
	}

	buckets, err := Normalize(raw, IntervalDaily)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, 2024, b.Year)
	assert.Equal(t, IntervalDaily, b.Interval)
	assert.Len(t, b.Prices, 3)
	assert.Equal(t, []float64{5}, b.PositiveWidths)
	assert.Equal(t, []float64{-3}, b.NegativeWidths)
	assert.Equal(t, []float64{5.0}, b.PositivePercentChanges)
	assert.Equal(t, []float64{-2.86}, b.NegativePercentChanges)
	assert.Equal(t, 5.0, b.Aggregates.AvgPosWidth)
	assert.Equal(t, -3.0, b.Aggregates.AvgNegWidth)
}

func TestNormalize_CrossYearPairBelongsToNewerYear(t *testing.T) {
	raw := RawTimeSeries{
		"2023-12-29": "100",
		"2024-01-31": "110",
	}

	buckets, err := Normalize(raw, IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, 2023, buckets[0].Year)
	assert.Empty(t, buckets[0].PositiveWidths)
	assert.Empty(t, buckets[0].NegativeWidths)
	assert.Equal(t, Aggregates{}, buckets[0].Aggregates)

	assert.Equal(t, 2024, buckets[1].Year)
	assert.Equal(t, []float64{10}, buckets[1].PositiveWidths)
	assert.Equal(t, []float64{10}, buckets[1].PositivePercentChanges)
}

func TestNormalize_ZeroOlderPriceGivesZeroPercent(t *testing.T) {
	raw := RawTimeSeries{"2024-02-01": "0", "2024-02-02": "5"}

	buckets, err := Normalize(raw, IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, buckets[0].PositiveWidths)
	assert.Equal(t, []float64{0}, buckets[0].PositivePercentChanges)
}

func TestNormalize_FlatPairCountsAsPositive(t *testing.T) {
	raw := RawTimeSeries{"2024-02-01": "50.25", "2024-02-02": "50.25"}

	buckets, err := Normalize(raw, IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, buckets[0].PositiveWidths)
	assert.Empty(t, buckets[0].NegativeWidths)
}

func TestNormalize_SequencesStayAligned(t *testing.T) {
	raw := RawTimeSeries{
		"2022-01-31": "10", "2022-02-28": "12", "2022-03-31": "11",
		"2023-01-31": "13", "2023-02-28": "9", "2023-03-31": "9.5",
	}

	buckets, err := Normalize(raw, IntervalMonthly)
	require.NoError(t, err)
	total := 0
	for _, b := range buckets {
		assert.Len(t, b.PositivePercentChanges, len(b.PositiveWidths))
		assert.Len(t, b.NegativePercentChanges, len(b.NegativeWidths))
		total += len(b.PositiveWidths) + len(b.NegativeWidths)
	}
	assert.Equal(t, len(raw)-1, total)
}

func TestNormalize_EmptySeries(t *testing.T) {
	_, err := Normalize(RawTimeSeries{}, IntervalWeekly)
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestNormalize_BadPrice(t *testing.T) {
	_, err := Normalize(RawTimeSeries{"2024-01-01": "n/a"}, IntervalWeekly)
	assert.ErrorIs(t, err, ErrDataFormat)

	_, err = Normalize(RawTimeSeries{"2024-01-01": ""}, IntervalWeekly)
	assert.ErrorIs(t, err, ErrDataFormat)

	_, err = Normalize(RawTimeSeries{"2024-01-01": "-4"}, IntervalWeekly)
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestNormalize_BadDate(t *testing.T) {
	_, err := Normalize(RawTimeSeries{"01/02/2024": "10"}, IntervalWeekly)
	assert.ErrorIs(t, err, ErrDataFormat)
}
