package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ProcessSeason applies every unprocessed final game of a season to the
// team ratings, in chronological order. Returns the number of games
// applied. Unresolved matchups are left for a later pass; invalid game
// state aborts, since it means the upstream data is defective.
func (e *Engine) ProcessSeason(ctx context.Context, season int) (int, error) {
	games, err := e.db.Games.ListFinalUnprocessed(ctx, season)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, game := range games {
		if game.HasUnresolvedOpponent() {
			log.Warn().
				Int("game_id", game.ID).
				Str("home", game.HomeTeamCode).
				Str("away", game.AwayTeamCode).
				Msg("Skipping unresolved matchup, will retry after bracket resolves")
			continue
		}

		if err := e.ProcessGame(ctx, game); err != nil {
			return processed, fmt.Errorf("processing game id=%d: %w", game.ID, err)
		}
		processed++
	}

	log.Info().
		Int("season", season).
		Int("processed", processed).
		Int("pending", len(games)-processed).
		Msg("Season processing pass complete")

	return processed, nil
}

// ProcessGame applies one final game to the two teams' ratings and
// marks it processed, atomically. A processed game is a no-op, so
// double invocation of a batch cannot double-count. Excluded games are
// marked processed without touching any rating.
func (e *Engine) ProcessGame(ctx context.Context, game *models.Game) error {
	if game.Processed {
		log.Debug().Int("game_id", game.ID).Msg("Game already processed, skipping")
		return nil
	}

	if game.HasUnresolvedOpponent() {
		return fmt.Errorf("game id=%d (%s vs %s): %w",
			game.ID, game.HomeTeamCode, game.AwayTeamCode, ErrUnresolvedMatchup)
	}

	if !game.IsFinal() || !game.HasFinalScore() {
		return fmt.Errorf("game id=%d has no final score: %w", game.ID, ErrInvalidGameState)
	}

	if game.ExcludedFromRankings {
		// The game is acknowledged but contributes nothing to ratings,
		// records or SOS.
		err := e.db.WithTx(ctx, func(tx pgx.Tx) error {
			return e.db.Games.MarkProcessedTx(ctx, tx, game.ID)
		})
		if err != nil {
			return err
		}
		game.Processed = true
		metrics.GamesProcessedTotal.WithLabelValues("excluded").Inc()
		log.Debug().Int("game_id", game.ID).Msg("Excluded game marked processed, ratings untouched")
		return nil
	}

	if game.HomeScore.Int32 == game.AwayScore.Int32 {
		return fmt.Errorf("game id=%d ended in a tie: %w", game.ID, ErrInvalidGameState)
	}

	home, err := e.db.Teams.GetByID(ctx, game.HomeTeamID)
	if err != nil {
		return err
	}
	away, err := e.db.Teams.GetByID(ctx, game.AwayTeamID)
	if err != nil {
		return err
	}

	deltaHome, deltaAway, err := e.params.ApplyResult(
		home.Rating, away.Rating,
		int(game.HomeScore.Int32), int(game.AwayScore.Int32),
		game.NeutralSite,
	)
	if err != nil {
		return fmt.Errorf("game id=%d: %w: %w", game.ID, ErrInvalidGameState, err)
	}

	// Rating movement and the processed flag commit together. A crash
	// in between must never be observable as one without the other.
	err = e.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := e.db.Teams.UpdateRatingTx(ctx, tx, home.ID, home.Rating+deltaHome); err != nil {
			return err
		}
		if err := e.db.Teams.UpdateRatingTx(ctx, tx, away.ID, away.Rating+deltaAway); err != nil {
			return err
		}
		return e.db.Games.MarkProcessedTx(ctx, tx, game.ID)
	})
	if err != nil {
		return err
	}

	game.Processed = true
	metrics.GamesProcessedTotal.WithLabelValues("applied").Inc()
	metrics.RatingDelta.Observe(deltaHome)

	log.Info().
		Int("game_id", game.ID).
		Str("home", game.HomeTeamCode).
		Str("away", game.AwayTeamCode).
		Float64("delta_home", deltaHome).
		Float64("delta_away", deltaAway).
		Msg("Game applied to ratings")

	return nil
}
