package models

import (
	"database/sql"
	"time"
)

// Division values for college football teams. FCS opponents appear on
// FBS schedules but their games are excluded from rankings.
const (
	DivisionFBS = "FBS"
	DivisionFCS = "FCS"
)

// Team represents a college football team.
// Rating is the single mutable current-strength value; it is updated
// only by the batch game processor and read through the ranking reader.
type Team struct {
	ID         int            `db:"id"`
	TeamID     int            `db:"team_id"`
	TeamCode   string         `db:"team_code"`
	SchoolName string         `db:"school_name"`
	Mascot     sql.NullString `db:"mascot"`
	Conference sql.NullString `db:"conference"`
	Division   sql.NullString `db:"division"`
	Rating     float64        `db:"rating"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// IsFCS returns true if the team plays in the FCS division
func (t *Team) IsFCS() bool {
	return t.Division.Valid && t.Division.String == DivisionFCS
}
