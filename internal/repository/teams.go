package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

const teamColumns = `id, team_id, team_code, school_name, mascot, conference, division,
	       rating, created_at, updated_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID, &team.TeamID, &team.TeamCode, &team.SchoolName,
		&team.Mascot, &team.Conference, &team.Division,
		&team.Rating, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Create inserts a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			team_id, team_code, school_name, mascot, conference, division, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.TeamID, team.TeamCode, team.SchoolName, team.Mascot,
		team.Conference, team.Division, team.Rating,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Int("team_id", team.TeamID).
		Str("code", team.TeamCode).
		Str("school", team.SchoolName).
		Msg("Team created")

	return nil
}

// Upsert inserts or updates a team. The rating column is deliberately
// not overwritten on conflict: rating state belongs to the game
// processor, not to the ingestion side.
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			team_id, team_code, school_name, mascot, conference, division, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (team_id) DO UPDATE SET
			team_code = EXCLUDED.team_code,
			school_name = EXCLUDED.school_name,
			mascot = EXCLUDED.mascot,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			updated_at = NOW()
		RETURNING id, rating, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.TeamID, team.TeamCode, team.SchoolName, team.Mascot,
		team.Conference, team.Division, team.Rating,
	).Scan(&team.ID, &team.Rating, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// GetByCode retrieves a team by its team code
func (r *TeamRepository) GetByCode(ctx context.Context, code string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_code = $1`

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: code=%s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// ListByRating retrieves all teams ordered by current rating descending.
// Team id is the secondary key, so equal ratings always come back in
// the same order; the snapshot writer relies on this for reproducible
// rank assignment.
func (r *TeamRepository) ListByRating(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY rating DESC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// UpdateRatingTx updates a team's rating inside the caller's
// transaction. Always paired with GameRepository.MarkProcessedTx so a
// rating change and the processed flag commit atomically.
func (r *TeamRepository) UpdateRatingTx(ctx context.Context, tx pgx.Tx, teamID int, rating float64) error {
	query := `
		UPDATE teams
		SET rating = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := tx.Exec(ctx, query, rating, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("team not found: id=%d", teamID)
	}

	return nil
}

// ResetRatings sets every team back to the given initial rating.
// Used when replaying a season from scratch.
func (r *TeamRepository) ResetRatings(ctx context.Context, initial float64) error {
	query := `UPDATE teams SET rating = $1, updated_at = NOW()`

	result, err := r.db.Pool.Exec(ctx, query, initial)
	if err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}

	log.Info().
		Int64("teams", result.RowsAffected()).
		Float64("rating", initial).
		Msg("Team ratings reset")

	return nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
