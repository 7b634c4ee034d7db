// Package rating implements the Elo-style rating recurrence used by the
// ranking engine: expected score, margin-of-victory scaled updates, and
// the win-probability / predicted-margin transforms derived from the
// same expected-score primitive.
//
// Everything here is a pure function of its inputs. Historical
// reproducibility of the rankings depends on that.
package rating

import (
	"errors"
	"math"
)

// ErrTieGame is returned when a game ends level. Ties do not exist in
// modern college football, so one showing up means bad upstream data.
var ErrTieGame = errors.New("tie game")

// Params holds the tunable constants of the rating model. Values come
// from configuration; operators calibrate them against known historical
// outcomes rather than hardcoding guesses.
type Params struct {
	// KFactor is the base update magnitude per game.
	KFactor float64

	// Divisor scales the rating gap in the logistic expected score.
	// With the classic 400, a team rated 400 points higher is expected
	// to win ten times as often.
	Divisor float64

	// HomeFieldBonus is added to the home team's rating when computing
	// the effective gap. It never touches the stored rating and is
	// skipped on neutral sites.
	HomeFieldBonus float64

	// InitialRating is the rating assigned to teams with no history.
	InitialRating float64

	// PointsPerMargin is the number of rating points corresponding to
	// one predicted point of scoreboard margin. Used only by the
	// prediction transforms, never by updates.
	PointsPerMargin float64
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		KFactor:         20,
		Divisor:         400,
		HomeFieldBonus:  65,
		InitialRating:   1500,
		PointsPerMargin: 25,
	}
}

// ExpectedScore returns the probability that a team rated ratingA beats
// a team rated ratingB, as the standard logistic of the rating gap.
func (p Params) ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/p.Divisor))
}

// ApplyResult computes the rating deltas for a finished game. The home
// team's rating gets the home-field bonus for the expected-score
// calculation only, unless the game was on a neutral site. The away
// delta is the exact negation of the home delta, so a single game is a
// strictly zero-sum rating transfer.
func (p Params) ApplyResult(ratingHome, ratingAway float64, homeScore, awayScore int, neutralSite bool) (deltaHome, deltaAway float64, err error) {
	if homeScore == awayScore {
		return 0, 0, ErrTieGame
	}

	effHome := ratingHome
	if !neutralSite {
		effHome += p.HomeFieldBonus
	}

	expectedHome := p.ExpectedScore(effHome, ratingAway)

	var outcomeHome float64
	var winnerGap float64
	if homeScore > awayScore {
		outcomeHome = 1.0
		winnerGap = effHome - ratingAway
	} else {
		outcomeHome = 0.0
		winnerGap = ratingAway - effHome
	}

	margin := homeScore - awayScore
	if margin < 0 {
		margin = -margin
	}

	deltaHome = p.KFactor * movMultiplier(float64(margin), winnerGap) * (outcomeHome - expectedHome)
	deltaAway = -deltaHome
	return deltaHome, deltaAway, nil
}

// movMultiplier scales the base K-factor by the margin of victory.
// Logarithmic in the margin, so blowouts move ratings further than
// narrow wins with diminishing returns, and dampened when the winner
// was already the stronger side so expected blowouts don't inflate
// ratings.
func movMultiplier(margin, winnerGap float64) float64 {
	// An underdog win has a negative gap; below -2200 the dampening
	// denominator crosses zero and would flip the delta's sign. Clamp
	// the gap so the multiplier stays positive for any input.
	if winnerGap < -2000 {
		winnerGap = -2000
	}
	return math.Log(margin+1) * (2.2 / (winnerGap*0.001 + 2.2))
}

// WinProbability returns the chance the favorite beats the underdog.
// Shares the expected-score primitive with ApplyResult but is otherwise
// independent of the update tuning.
func (p Params) WinProbability(favorite, underdog float64) float64 {
	return p.ExpectedScore(favorite, underdog)
}

// PredictedMargin converts the favorite's rating edge into a predicted
// scoreboard margin in points.
func (p Params) PredictedMargin(favorite, underdog float64) float64 {
	return (favorite - underdog) / p.PointsPerMargin
}
