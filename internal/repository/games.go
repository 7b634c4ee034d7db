package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `id, game_id, season, week, home_team_id, away_team_id,
	       home_team_code, away_team_code, game_date, neutral_site, status,
	       home_score, away_score, excluded_from_rankings, processed,
	       created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GameID, &game.Season, &game.Week, &game.HomeTeamID, &game.AwayTeamID,
		&game.HomeTeamCode, &game.AwayTeamCode, &game.GameDate, &game.NeutralSite, &game.Status,
		&game.HomeScore, &game.AwayScore, &game.ExcludedFromRankings, &game.Processed,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *GameRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Upsert inserts or updates a game. The processed flag is never
// overwritten on conflict: once a game has contributed to rating state
// that fact survives re-ingestion of the schedule.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_id, season, week, home_team_id, away_team_id,
			home_team_code, away_team_code, game_date, neutral_site, status,
			home_score, away_score, excluded_from_rankings, processed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (game_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_team_code = EXCLUDED.home_team_code,
			away_team_code = EXCLUDED.away_team_code,
			game_date = EXCLUDED.game_date,
			neutral_site = EXCLUDED.neutral_site,
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			excluded_from_rankings = EXCLUDED.excluded_from_rankings,
			updated_at = NOW()
		RETURNING id, processed, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameID, game.Season, game.Week, game.HomeTeamID, game.AwayTeamID,
		game.HomeTeamCode, game.AwayTeamCode, game.GameDate, game.NeutralSite, game.Status,
		game.HomeScore, game.AwayScore, game.ExcludedFromRankings, game.Processed,
	).Scan(&game.ID, &game.Processed, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByGameID retrieves a game by its external GameID
func (r *GameRepository) GetByGameID(ctx context.Context, gameID int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, gameID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%d", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListQualifying retrieves a season's games that count toward ratings,
// records and strength of schedule: final, processed and not excluded.
//
// This is the only query that reads games for rating-derived outputs.
// Keeping the processed/excluded predicate here, instead of at each
// call site, is what guarantees nobody forgets to filter.
func (r *GameRepository) ListQualifying(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		  AND status = 'Final'
		  AND processed = TRUE
		  AND excluded_from_rankings = FALSE
		ORDER BY game_date, id
	`

	return r.list(ctx, query, season)
}

// ListQualifyingByTeam retrieves the qualifying games (see
// ListQualifying) in which the given team played either side.
func (r *GameRepository) ListQualifyingByTeam(ctx context.Context, teamID, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		  AND (home_team_id = $2 OR away_team_id = $2)
		  AND status = 'Final'
		  AND processed = TRUE
		  AND excluded_from_rankings = FALSE
		ORDER BY game_date, id
	`

	return r.list(ctx, query, season, teamID)
}

// ListFinalUnprocessed retrieves a season's completed games that have
// not yet contributed to rating state, in chronological order.
func (r *GameRepository) ListFinalUnprocessed(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		  AND status = 'Final'
		  AND processed = FALSE
		ORDER BY game_date, id
	`

	games, err := r.list(ctx, query, season)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("season", season).Int("count", len(games)).Msg("Retrieved unprocessed final games")
	return games, nil
}

// ListByWeek retrieves games for a specific season and week
func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2
		ORDER BY game_date, id
	`

	return r.list(ctx, query, season, week)
}

// ListScheduledByWeek retrieves not-yet-played games for a week, for
// prospective predictions.
func (r *GameRepository) ListScheduledByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2 AND status = 'Scheduled'
		ORDER BY game_date, id
	`

	return r.list(ctx, query, season, week)
}

// MarkProcessedTx flips the processed flag inside the caller's
// transaction, as part of the same commit that moves the ratings.
func (r *GameRepository) MarkProcessedTx(ctx context.Context, tx pgx.Tx, gameID int) error {
	query := `
		UPDATE games
		SET processed = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, gameID)
	if err != nil {
		return fmt.Errorf("failed to mark game processed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: id=%d", gameID)
	}

	return nil
}

// ResetProcessed clears the processed flag for every game of a season,
// so a replay can re-apply the schedule from scratch.
func (r *GameRepository) ResetProcessed(ctx context.Context, season int) error {
	query := `
		UPDATE games
		SET processed = FALSE, updated_at = NOW()
		WHERE season = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, season)
	if err != nil {
		return fmt.Errorf("failed to reset processed games: %w", err)
	}

	log.Info().
		Int("season", season).
		Int64("games", result.RowsAffected()).
		Msg("Season games un-marked for replay")

	return nil
}

// SetExcluded updates the exclusion flag on a game. Exclusion is
// decided upstream; this only records the decision.
func (r *GameRepository) SetExcluded(ctx context.Context, gameID int, excluded bool) error {
	query := `
		UPDATE games
		SET excluded_from_rankings = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, excluded, gameID)
	if err != nil {
		return fmt.Errorf("failed to set game exclusion: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: id=%d", gameID)
	}

	return nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
