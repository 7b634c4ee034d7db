package engine

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ReplaySeason rebuilds the rating state of a season from scratch:
// every team goes back to the initial rating, the season's games are
// un-marked, and the schedule is re-applied in chronological order.
// Used after upstream data corrections that invalidate games already
// applied to the ratings. The replay is deterministic, so identical
// game data always reproduces identical ratings.
//
// Weekly snapshots are not rewritten here; the operator re-saves the
// affected weeks afterwards.
func (e *Engine) ReplaySeason(ctx context.Context, season int) (int, error) {
	log.Warn().Int("season", season).Msg("Replaying season from scratch")

	if err := e.db.Teams.ResetRatings(ctx, e.params.InitialRating); err != nil {
		return 0, err
	}
	if err := e.db.Games.ResetProcessed(ctx, season); err != nil {
		return 0, err
	}

	return e.ProcessSeason(ctx, season)
}
