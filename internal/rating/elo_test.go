package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	p := DefaultParams()

	// Equal ratings are a coin flip
	assert.InDelta(t, 0.5, p.ExpectedScore(1500, 1500), 1e-12)

	// A 400-point gap is 10:1
	assert.InDelta(t, 10.0/11.0, p.ExpectedScore(1900, 1500), 1e-12)

	// Complementary
	a := p.ExpectedScore(1650, 1480)
	b := p.ExpectedScore(1480, 1650)
	assert.InDelta(t, 1.0, a+b, 1e-12)

	// Larger gaps push toward the extremes
	assert.Greater(t, p.ExpectedScore(2000, 1400), p.ExpectedScore(1700, 1400))
}

func TestApplyResult_ZeroSum(t *testing.T) {
	p := DefaultParams()

	dHome, dAway, err := p.ApplyResult(1600, 1600, 24, 17, false)
	require.NoError(t, err)
	assert.Equal(t, dHome, -dAway, "rating transfer must be exactly zero-sum")
	assert.NotZero(t, dHome)
}

func TestApplyResult_TieIsError(t *testing.T) {
	p := DefaultParams()

	_, _, err := p.ApplyResult(1600, 1550, 21, 21, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTieGame)
}

func TestApplyResult_MarginMonotonic(t *testing.T) {
	p := DefaultParams()

	var prev float64
	for _, margin := range []int{1, 3, 7, 14, 28, 56} {
		dHome, _, err := p.ApplyResult(1500, 1500, 20+margin, 20, true)
		require.NoError(t, err)
		assert.Greater(t, math.Abs(dHome), prev,
			"larger margin must never shrink the delta (margin=%d)", margin)
		prev = math.Abs(dHome)
	}
}

func TestApplyResult_HomeFieldAdjustment(t *testing.T) {
	p := DefaultParams()

	// Same matchup, home vs neutral. The home win was more expected,
	// so the home winner gains less than the neutral winner.
	dHomeField, _, err := p.ApplyResult(1600, 1600, 27, 20, false)
	require.NoError(t, err)
	dNeutral, _, err := p.ApplyResult(1600, 1600, 27, 20, true)
	require.NoError(t, err)

	assert.Less(t, dHomeField, dNeutral)
	assert.Greater(t, dHomeField, 0.0)
}

func TestApplyResult_UpsetMovesMore(t *testing.T) {
	p := DefaultParams()

	// Modest home favorite wins by 7: moderate movement.
	dExpected, _, err := p.ApplyResult(1600, 1600, 24, 17, false)
	require.NoError(t, err)

	// Heavy favorite wins by 40 on a neutral site: the result was
	// already priced in, so the movement stays smaller despite the
	// larger margin.
	dPricedIn, _, err := p.ApplyResult(1800, 1400, 52, 12, true)
	require.NoError(t, err)

	assert.Greater(t, dExpected, 0.0)
	assert.Greater(t, dPricedIn, 0.0)
	assert.Less(t, dPricedIn, dExpected)
}

func TestApplyResult_AwayWin(t *testing.T) {
	p := DefaultParams()

	dHome, dAway, err := p.ApplyResult(1550, 1520, 10, 31, false)
	require.NoError(t, err)
	assert.Less(t, dHome, 0.0)
	assert.Greater(t, dAway, 0.0)
	assert.Equal(t, dHome, -dAway)
}

func TestApplyResult_ExtremeUpset(t *testing.T) {
	p := DefaultParams()

	// Absurd rating gaps must not flip the delta's sign through the
	// margin dampening; the winner always moves up.
	dHome, dAway, err := p.ApplyResult(100, 3000, 21, 17, true)
	require.NoError(t, err)
	assert.Greater(t, dHome, 0.0)
	assert.Equal(t, dHome, -dAway)

	dHome, _, err = p.ApplyResult(3000, 100, 3, 45, true)
	require.NoError(t, err)
	assert.Less(t, dHome, 0.0, "the giant losing at home still loses rating")
}

func TestApplyResult_Deterministic(t *testing.T) {
	p := DefaultParams()

	d1, _, err := p.ApplyResult(1712.5, 1488.25, 35, 28, false)
	require.NoError(t, err)
	d2, _, err := p.ApplyResult(1712.5, 1488.25, 35, 28, false)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestWinProbability(t *testing.T) {
	p := DefaultParams()

	// Favorite by construction: probability at least a coin flip
	assert.GreaterOrEqual(t, p.WinProbability(1700, 1500), 0.5)
	assert.InDelta(t, 0.5, p.WinProbability(1500, 1500), 1e-12)

	// Matches the expected-score primitive exactly
	assert.Equal(t, p.ExpectedScore(1650, 1500), p.WinProbability(1650, 1500))
}

func TestPredictedMargin(t *testing.T) {
	p := DefaultParams()

	assert.InDelta(t, 0.0, p.PredictedMargin(1500, 1500), 1e-12)
	assert.InDelta(t, 4.0, p.PredictedMargin(1600, 1500), 1e-12)

	// Monotonic in the gap
	assert.Greater(t, p.PredictedMargin(1800, 1500), p.PredictedMargin(1600, 1500))
}
