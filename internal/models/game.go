package models

import (
	"database/sql"
	"time"
)

// TBDTeamCode marks a playoff slot whose participant has not been
// decided yet. Games against a TBD slot are never processed.
const TBDTeamCode = "TBD"

// Game represents a college football game.
//
// Processed marks whether the game has contributed to rating state;
// processing is idempotent and a processed game is never re-applied.
// ExcludedFromRankings is set upstream (FCS opponents, unresolved
// playoff placeholders) and the engine only honors it.
type Game struct {
	ID           int       `db:"id"`
	GameID       int       `db:"game_id"`
	Season       int       `db:"season"`
	Week         int       `db:"week"`
	HomeTeamID   int       `db:"home_team_id"`
	AwayTeamID   int       `db:"away_team_id"`
	HomeTeamCode string    `db:"home_team_code"`
	AwayTeamCode string    `db:"away_team_code"`
	GameDate     time.Time `db:"game_date"`
	NeutralSite  bool      `db:"neutral_site"`
	Status       string    `db:"status"`

	// Scores, null until played
	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	ExcludedFromRankings bool `db:"excluded_from_rankings"`
	Processed            bool `db:"processed"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsScheduled returns true if the game is scheduled but not started
func (g *Game) IsScheduled() bool {
	return g.Status == "Scheduled"
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return g.Status == "Final"
}

// HasFinalScore returns true if both scores are present
func (g *Game) HasFinalScore() bool {
	return g.HomeScore.Valid && g.AwayScore.Valid
}

// HasUnresolvedOpponent returns true if either slot is a playoff TBD
func (g *Game) HasUnresolvedOpponent() bool {
	return g.HomeTeamID == 0 || g.AwayTeamID == 0 ||
		g.HomeTeamCode == TBDTeamCode || g.AwayTeamCode == TBDTeamCode
}

// Margin returns home score minus away score. Only meaningful when
// HasFinalScore is true.
func (g *Game) Margin() int {
	return int(g.HomeScore.Int32) - int(g.AwayScore.Int32)
}

// OpponentID returns the other side's team id for the given team,
// and false if the team did not play in this game.
func (g *Game) OpponentID(teamID int) (int, bool) {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayTeamID, true
	case g.AwayTeamID:
		return g.HomeTeamID, true
	}
	return 0, false
}
