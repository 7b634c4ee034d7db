package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidGameState indicates an upstream data defect: a game
// presented for processing without final scores, or a tie. Never
// silently skipped.
var ErrInvalidGameState = errors.New("invalid game state")

// ErrUnresolvedMatchup indicates a game referencing a not-yet-decided
// opponent (playoff TBD). Processing refuses; the caller re-attempts
// after the bracket resolves. A placeholder rating is never guessed.
var ErrUnresolvedMatchup = errors.New("unresolved matchup")

// SnapshotError reports a failed weekly ranking batch. The whole week
// is rolled back; Season, Week and the failing team identify where.
type SnapshotError struct {
	Season int
	Week   int
	TeamID int
	Err    error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("weekly ranking snapshot failed: season=%d week=%d team=%d: %v",
		e.Season, e.Week, e.TeamID, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}
