package models

import "time"

// RankingHistory is an immutable weekly snapshot of a team's rank,
// rating, strength of schedule and record, keyed by (team, season,
// week). Once a week is written it is the authoritative historical
// answer; the live team rating is never used to answer "what was team
// X ranked in week N". Corrections re-save the whole week
// (last-write-wins), never patch rows in place.
type RankingHistory struct {
	ID     int `db:"id"`
	TeamID int `db:"team_id"`
	Season int `db:"season"`
	Week   int `db:"week"`

	Rank    int     `db:"rank"`
	Rating  float64 `db:"rating"`
	SOS     float64 `db:"sos"`
	SOSRank int     `db:"sos_rank"`
	Wins    int     `db:"wins"`
	Losses  int     `db:"losses"`

	CreatedAt time.Time `db:"created_at"`
}
