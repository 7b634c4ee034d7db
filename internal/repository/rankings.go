package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RankingRepository handles ranking_history database operations.
// The table is append-only by convention: rows for a (season, week)
// are only ever replaced wholesale when an operator re-saves that week.
type RankingRepository struct {
	db *Database
}

const rankingColumns = `id, team_id, season, week, rank, rating, sos, sos_rank,
	       wins, losses, created_at`

func scanRanking(row pgx.Row) (*models.RankingHistory, error) {
	var rh models.RankingHistory
	err := row.Scan(
		&rh.ID, &rh.TeamID, &rh.Season, &rh.Week, &rh.Rank, &rh.Rating,
		&rh.SOS, &rh.SOSRank, &rh.Wins, &rh.Losses, &rh.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rh, nil
}

// UpsertTx writes one snapshot row inside the caller's transaction.
// The (team, season, week) conflict target makes re-saving a week
// last-write-wins, which is how corrections are applied.
func (r *RankingRepository) UpsertTx(ctx context.Context, tx pgx.Tx, rh *models.RankingHistory) error {
	query := `
		INSERT INTO ranking_history (
			team_id, season, week, rank, rating, sos, sos_rank, wins, losses
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (team_id, season, week) DO UPDATE SET
			rank = EXCLUDED.rank,
			rating = EXCLUDED.rating,
			sos = EXCLUDED.sos,
			sos_rank = EXCLUDED.sos_rank,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		rh.TeamID, rh.Season, rh.Week, rh.Rank, rh.Rating,
		rh.SOS, rh.SOSRank, rh.Wins, rh.Losses,
	).Scan(&rh.ID, &rh.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert ranking row: %w", err)
	}

	return nil
}

// ListByWeek retrieves a week's snapshot ordered by rank ascending,
// truncated to limit (0 = no limit). An empty result means the week
// has not been computed yet; that is not an error.
func (r *RankingRepository) ListByWeek(ctx context.Context, season, week, limit int) ([]*models.RankingHistory, error) {
	query := `SELECT ` + rankingColumns + `
		FROM ranking_history
		WHERE season = $1 AND week = $2
		ORDER BY rank ASC
	`
	args := []interface{}{season, week}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*models.RankingHistory
	for rows.Next() {
		rh, err := scanRanking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		rankings = append(rankings, rh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rankings: %w", err)
	}

	log.Debug().
		Int("season", season).
		Int("week", week).
		Int("count", len(rankings)).
		Msg("Retrieved ranking snapshot")

	return rankings, nil
}

// GetByTeamWeek retrieves a team's snapshot for an exact (season, week).
// Returns nil when no snapshot exists for that key.
func (r *RankingRepository) GetByTeamWeek(ctx context.Context, teamID, season, week int) (*models.RankingHistory, error) {
	query := `SELECT ` + rankingColumns + `
		FROM ranking_history
		WHERE team_id = $1 AND season = $2 AND week = $3
	`

	rh, err := scanRanking(r.db.Pool.QueryRow(ctx, query, teamID, season, week))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking row: %w", err)
	}

	return rh, nil
}

// GetLatestForTeamUpToWeek retrieves the most recent snapshot row for a
// team at or before the given week. Snapshot weeks are not guaranteed
// to be contiguous; a week that was never saved falls through to the
// last one that was. Returns nil when no snapshot exists that early.
func (r *RankingRepository) GetLatestForTeamUpToWeek(ctx context.Context, teamID, season, week int) (*models.RankingHistory, error) {
	query := `SELECT ` + rankingColumns + `
		FROM ranking_history
		WHERE team_id = $1 AND season = $2 AND week <= $3
		ORDER BY week DESC
		LIMIT 1
	`

	rh, err := scanRanking(r.db.Pool.QueryRow(ctx, query, teamID, season, week))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking row up to week: %w", err)
	}

	return rh, nil
}

// GetLatestForTeam retrieves the most recent snapshot row for a team in
// a season. Returns nil when the team has no snapshot yet.
func (r *RankingRepository) GetLatestForTeam(ctx context.Context, teamID, season int) (*models.RankingHistory, error) {
	query := `SELECT ` + rankingColumns + `
		FROM ranking_history
		WHERE team_id = $1 AND season = $2
		ORDER BY week DESC
		LIMIT 1
	`

	rh, err := scanRanking(r.db.Pool.QueryRow(ctx, query, teamID, season))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ranking row: %w", err)
	}

	return rh, nil
}
