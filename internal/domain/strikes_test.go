package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableAt(level ConfidenceLevel, call, put float64) ProbabilityTable {
	return ProbabilityTable{
		Call: map[ConfidenceLevel]float64{level: call},
		Put:  map[ConfidenceLevel]float64{level: put},
	}
}

func TestProjectStrikes_EqualWidth(t *testing.T) {
	s, err := ProjectStrikes(tableAt(70, 8, 5), 70, 100, StrategyEqualWidth)
	require.NoError(t, err)
	assert.Equal(t, 108.0, s.Call)
	assert.Equal(t, 92.0, s.Put)
	assert.Equal(t, 8.0, s.CallWidthPct)
	assert.Equal(t, 5.0, s.PutWidthPct)
}

func TestProjectStrikes_EqualWidthUsesLargerPercent(t *testing.T) {
	s, err := ProjectStrikes(tableAt(80, 3, 6), 80, 200, StrategyEqualWidth)
	require.NoError(t, err)
	assert.Equal(t, 212.0, s.Call)
	assert.Equal(t, 188.0, s.Put)
}

func TestProjectStrikes_IndependentWidth(t *testing.T) {
	s, err := ProjectStrikes(tableAt(70, 8, -5), 70, 100, StrategyIndependentWidth)
	require.NoError(t, err)
	assert.Equal(t, 108.0, s.Call)
	assert.Equal(t, 95.0, s.Put)
	assert.Equal(t, -5.0, s.PutWidthPct)
}

func TestProjectStrikes_RoundsToUnit(t *testing.T) {
	s, err := ProjectStrikes(tableAt(90, 2.5, -1.2), 90, 187.35, StrategyIndependentWidth)
	require.NoError(t, err)
	// 187.35 * 1.025 = 192.03; 187.35 * 0.988 = 185.10
	assert.Equal(t, 192.0, s.Call)
	assert.Equal(t, 185.0, s.Put)
}

func TestProjectStrikes_UnknownLevel(t *testing.T) {
	_, err := ProjectStrikes(tableAt(70, 8, -5), 90, 100, StrategyIndependentWidth)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProjectStrikes_UnknownStrategy(t *testing.T) {
	_, err := ProjectStrikes(tableAt(70, 8, -5), 70, 100, Strategy("butterfly"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
