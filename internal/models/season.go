package models

import "time"

// Season holds the current-week pointer for a season year. CurrentWeek
// defines which week's snapshot answers "current rankings" queries.
type Season struct {
	ID          int       `db:"id"`
	Year        int       `db:"year"`
	CurrentWeek int       `db:"current_week"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
