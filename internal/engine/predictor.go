package engine

import (
	"context"
	"fmt"
	"time"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// RatingLookup selects where a prediction takes its ratings from.
// Current reads the live team ratings (prospective predictions for
// games not yet played). AsOf reconstructs ratings from the ranking
// snapshot of a past week (retrospective backfill) so a prediction for
// an old game never sees results that came after it.
type RatingLookup struct {
	asOf bool
	week int
}

// RatingsCurrent looks ratings up from the live team state.
func RatingsCurrent() RatingLookup {
	return RatingLookup{}
}

// RatingsAsOf looks ratings up from the ranking snapshot of the given
// week.
func RatingsAsOf(week int) RatingLookup {
	return RatingLookup{asOf: true, week: week}
}

// PredictGame computes the win probability and predicted margin for a
// game, for the designated favorite (the side with the higher
// effective rating, home-field included unless neutral site).
func (e *Engine) PredictGame(ctx context.Context, game *models.Game, lookup RatingLookup) (*models.Prediction, error) {
	if game.HasUnresolvedOpponent() {
		return nil, fmt.Errorf("game id=%d (%s vs %s): %w",
			game.ID, game.HomeTeamCode, game.AwayTeamCode, ErrUnresolvedMatchup)
	}

	homeRating, err := e.lookupRating(ctx, game.HomeTeamID, game.Season, lookup)
	if err != nil {
		return nil, err
	}
	awayRating, err := e.lookupRating(ctx, game.AwayTeamID, game.Season, lookup)
	if err != nil {
		return nil, err
	}

	effHome := homeRating
	if !game.NeutralSite {
		effHome += e.params.HomeFieldBonus
	}

	favoriteID, favorite, underdog := game.HomeTeamID, effHome, awayRating
	if awayRating > effHome {
		favoriteID, favorite, underdog = game.AwayTeamID, awayRating, effHome
	}

	return &models.Prediction{
		GameID:          game.ID,
		ModelName:       models.PredictionModelElo,
		FavoriteTeamID:  favoriteID,
		WinProbability:  e.params.WinProbability(favorite, underdog),
		PredictedMargin: e.params.PredictedMargin(favorite, underdog),
		Retrospective:   lookup.asOf,
		PredictedAt:     time.Now(),
	}, nil
}

// lookupRating resolves a team's rating for the chosen mode. In as-of
// mode the lookup takes the latest snapshot at or before the target
// week, so a week an operator never saved falls through to the last one
// that was. Only a team with no snapshot at all that early falls back
// to the initial rating, which is exactly what its rating was at that
// point.
func (e *Engine) lookupRating(ctx context.Context, teamID, season int, lookup RatingLookup) (float64, error) {
	if !lookup.asOf {
		team, err := e.db.Teams.GetByID(ctx, teamID)
		if err != nil {
			return 0, err
		}
		return team.Rating, nil
	}

	row, err := e.db.Rankings.GetLatestForTeamUpToWeek(ctx, teamID, season, lookup.week)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return e.params.InitialRating, nil
	}
	return row.Rating, nil
}

// GeneratePredictions creates prospective predictions for every
// scheduled game of a week, from the current ratings. Returns how many
// were saved; games with unresolved opponents are skipped for a later
// pass.
func (e *Engine) GeneratePredictions(ctx context.Context, season, week int) (int, error) {
	games, err := e.db.Games.ListScheduledByWeek(ctx, season, week)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, game := range games {
		if game.HasUnresolvedOpponent() {
			log.Debug().Int("game_id", game.ID).Msg("Skipping prediction for unresolved matchup")
			continue
		}

		pred, err := e.PredictGame(ctx, game, RatingsCurrent())
		if err != nil {
			return saved, err
		}
		if err := e.db.Predictions.Upsert(ctx, pred); err != nil {
			return saved, err
		}
		saved++
		metrics.PredictionsGeneratedTotal.WithLabelValues("prospective").Inc()
	}

	log.Info().
		Int("season", season).
		Int("week", week).
		Int("saved", saved).
		Msg("Prospective predictions generated")

	return saved, nil
}

// BackfillPredictions regenerates retrospective predictions for every
// completed game of a past week, using the ratings as they stood the
// week before the games were played. Using current ratings here would
// be a look-ahead bug: the prediction would know about results that
// had not happened yet.
func (e *Engine) BackfillPredictions(ctx context.Context, season, week int) (int, error) {
	games, err := e.db.Games.ListByWeek(ctx, season, week)
	if err != nil {
		return 0, err
	}

	lookup := RatingsAsOf(week - 1)

	saved := 0
	for _, game := range games {
		if !game.IsFinal() || game.HasUnresolvedOpponent() {
			continue
		}

		pred, err := e.PredictGame(ctx, game, lookup)
		if err != nil {
			return saved, err
		}
		if err := e.db.Predictions.Upsert(ctx, pred); err != nil {
			return saved, err
		}
		saved++
		metrics.PredictionsGeneratedTotal.WithLabelValues("retrospective").Inc()
	}

	log.Info().
		Int("season", season).
		Int("week", week).
		Int("saved", saved).
		Msg("Retrospective predictions backfilled")

	return saved, nil
}
