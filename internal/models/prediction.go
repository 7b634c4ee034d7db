package models

import "time"

// Prediction model names
const (
	PredictionModelElo = "elo-v1"
)

// Prediction holds the win probability and predicted score margin for
// a game, computed for the designated favorite.
//
// Retrospective predictions are backfilled from ranking history (the
// ratings as they stood the week before the game) so that after-the-fact
// accuracy comparisons never leak future results. One row exists per
// (game, retrospective) pair and rows are regenerable.
type Prediction struct {
	ID     int `db:"id"`
	GameID int `db:"game_id"`

	ModelName      string `db:"model_name"`
	FavoriteTeamID int    `db:"favorite_team_id"`

	WinProbability  float64 `db:"win_probability"`
	PredictedMargin float64 `db:"predicted_margin"`

	Retrospective bool `db:"retrospective"`

	PredictedAt time.Time `db:"predicted_at"`
	CreatedAt   time.Time `db:"created_at"`
}
