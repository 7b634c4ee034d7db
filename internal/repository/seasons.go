package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SeasonRepository handles season database operations
type SeasonRepository struct {
	db *Database
}

// Upsert inserts or updates a season
func (r *SeasonRepository) Upsert(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (year, current_week)
		VALUES ($1, $2)
		ON CONFLICT (year) DO UPDATE SET
			current_week = EXCLUDED.current_week,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, season.Year, season.CurrentWeek).
		Scan(&season.ID, &season.CreatedAt, &season.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert season: %w", err)
	}

	return nil
}

// GetByYear retrieves a season by year. Returns nil when the season
// does not exist.
func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (*models.Season, error) {
	query := `
		SELECT id, year, current_week, created_at, updated_at
		FROM seasons
		WHERE year = $1
	`

	var season models.Season
	err := r.db.Pool.QueryRow(ctx, query, year).Scan(
		&season.ID, &season.Year, &season.CurrentWeek,
		&season.CreatedAt, &season.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	return &season, nil
}

// GetLatest retrieves the most recent season. Returns nil when no
// seasons exist.
func (r *SeasonRepository) GetLatest(ctx context.Context) (*models.Season, error) {
	query := `
		SELECT id, year, current_week, created_at, updated_at
		FROM seasons
		ORDER BY year DESC
		LIMIT 1
	`

	var season models.Season
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&season.ID, &season.Year, &season.CurrentWeek,
		&season.CreatedAt, &season.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest season: %w", err)
	}

	return &season, nil
}

// SetCurrentWeek advances the current-week pointer for a season
func (r *SeasonRepository) SetCurrentWeek(ctx context.Context, year, week int) error {
	query := `
		UPDATE seasons
		SET current_week = $1, updated_at = NOW()
		WHERE year = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, week, year)
	if err != nil {
		return fmt.Errorf("failed to set current week: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("season not found: year=%d", year)
	}

	log.Info().Int("year", year).Int("week", week).Msg("Season current week updated")
	return nil
}
