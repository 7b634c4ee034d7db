package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStatusHelpers(t *testing.T) {
	game := &Game{Status: "Scheduled", HomeTeamID: 1, AwayTeamID: 2}
	assert.True(t, game.IsScheduled())
	assert.False(t, game.IsFinal())
	assert.False(t, game.HasFinalScore())

	game.Status = "Final"
	game.HomeScore = sql.NullInt32{Int32: 28, Valid: true}
	game.AwayScore = sql.NullInt32{Int32: 14, Valid: true}
	assert.False(t, game.IsScheduled())
	assert.True(t, game.IsFinal())
	assert.True(t, game.HasFinalScore())
	assert.Equal(t, 14, game.Margin())
}

func TestGameUnresolvedOpponent(t *testing.T) {
	// Playoff slot whose participant is not decided yet
	game := &Game{HomeTeamID: 1, AwayTeamID: 0, HomeTeamCode: "A", AwayTeamCode: TBDTeamCode}
	assert.True(t, game.HasUnresolvedOpponent())

	game.AwayTeamID = 2
	game.AwayTeamCode = "B"
	assert.False(t, game.HasUnresolvedOpponent())

	// A TBD code marks the slot unresolved even with a nonzero id
	game.HomeTeamCode = TBDTeamCode
	assert.True(t, game.HasUnresolvedOpponent())
}

func TestGameOpponentID(t *testing.T) {
	game := &Game{HomeTeamID: 7, AwayTeamID: 9}

	opp, ok := game.OpponentID(7)
	assert.True(t, ok)
	assert.Equal(t, 9, opp)

	opp, ok = game.OpponentID(9)
	assert.True(t, ok)
	assert.Equal(t, 7, opp)

	_, ok = game.OpponentID(11)
	assert.False(t, ok, "a team that did not play has no opponent")
}
