package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PredictionRepository handles prediction database operations
type PredictionRepository struct {
	db *Database
}

// Upsert inserts or replaces the prediction for a (game, mode) pair.
// Predictions are regenerable; re-running a backfill overwrites.
func (r *PredictionRepository) Upsert(ctx context.Context, pred *models.Prediction) error {
	if pred == nil {
		return fmt.Errorf("prediction cannot be nil")
	}

	if err := validatePredictionData(pred); err != nil {
		return fmt.Errorf("prediction validation failed: %w", err)
	}

	query := `
		INSERT INTO predictions (
			game_id, model_name, favorite_team_id,
			win_probability, predicted_margin, retrospective, predicted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id, retrospective) DO UPDATE SET
			model_name = EXCLUDED.model_name,
			favorite_team_id = EXCLUDED.favorite_team_id,
			win_probability = EXCLUDED.win_probability,
			predicted_margin = EXCLUDED.predicted_margin,
			predicted_at = EXCLUDED.predicted_at
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		pred.GameID, pred.ModelName, pred.FavoriteTeamID,
		pred.WinProbability, pred.PredictedMargin, pred.Retrospective, pred.PredictedAt,
	).Scan(&pred.ID, &pred.CreatedAt)

	if err != nil {
		log.Error().Err(err).Int("game_id", pred.GameID).Msg("Failed to upsert prediction")
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}

	log.Debug().
		Int("id", pred.ID).
		Int("game_id", pred.GameID).
		Bool("retrospective", pred.Retrospective).
		Msg("Prediction saved")

	return nil
}

// GetByGameID retrieves the prediction for a game in the given mode.
// Returns nil when no prediction exists yet.
func (r *PredictionRepository) GetByGameID(ctx context.Context, gameID int, retrospective bool) (*models.Prediction, error) {
	query := `
		SELECT id, game_id, model_name, favorite_team_id,
		       win_probability, predicted_margin, retrospective,
		       predicted_at, created_at
		FROM predictions
		WHERE game_id = $1 AND retrospective = $2
	`

	pred := &models.Prediction{}
	err := r.db.Pool.QueryRow(ctx, query, gameID, retrospective).Scan(
		&pred.ID, &pred.GameID, &pred.ModelName, &pred.FavoriteTeamID,
		&pred.WinProbability, &pred.PredictedMargin, &pred.Retrospective,
		&pred.PredictedAt, &pred.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return pred, nil
}

// DeleteByGameID deletes all predictions for a game (for retry/correction)
func (r *PredictionRepository) DeleteByGameID(ctx context.Context, gameID int) error {
	query := `DELETE FROM predictions WHERE game_id = $1`

	result, err := r.db.Pool.Exec(ctx, query, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}

	log.Warn().Int64("rows_affected", result.RowsAffected()).Int("game_id", gameID).Msg("Predictions deleted")
	return nil
}

// validatePredictionData ensures prediction data is valid before insertion
func validatePredictionData(pred *models.Prediction) error {
	if pred.GameID <= 0 {
		return fmt.Errorf("game_id must be positive")
	}
	if pred.ModelName == "" {
		return fmt.Errorf("model_name is required")
	}
	if pred.FavoriteTeamID <= 0 {
		return fmt.Errorf("favorite_team_id must be positive")
	}
	if pred.WinProbability < 0.5 || pred.WinProbability > 1.0 {
		return fmt.Errorf("win_probability must be between 0.5 and 1 for the favorite")
	}
	if pred.PredictedMargin < 0 {
		return fmt.Errorf("predicted_margin must be non-negative for the favorite")
	}
	if pred.PredictedAt.IsZero() {
		return fmt.Errorf("predicted_at is required")
	}
	return nil
}
