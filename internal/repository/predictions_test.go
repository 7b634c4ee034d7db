package repository

import (
	"testing"
	"time"

	"cfbrank/engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRepository_UpsertAndDelete(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	cleanupSeason(t, db, ctx, 2931, 29830, 29839)

	home := &models.Team{TeamID: 29830, TeamCode: "PRH", SchoolName: "Pred Home"}
	away := &models.Team{TeamID: 29831, TeamCode: "PRA", SchoolName: "Pred Away"}
	seedTeams(t, db, ctx, []*models.Team{home, away})

	game := &models.Game{
		GameID: 298301, Season: 2931, Week: 1,
		HomeTeamID: home.ID, AwayTeamID: away.ID,
		HomeTeamCode: "PRH", AwayTeamCode: "PRA",
		GameDate: time.Now(), Status: "Scheduled",
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	pred := &models.Prediction{
		GameID:          game.ID,
		ModelName:       models.PredictionModelElo,
		FavoriteTeamID:  home.ID,
		WinProbability:  0.62,
		PredictedMargin: 4.5,
		PredictedAt:     time.Now(),
	}
	require.NoError(t, db.Predictions.Upsert(ctx, pred))
	assert.NotZero(t, pred.ID)

	// The retrospective slot is independent of the prospective one
	retro := &models.Prediction{
		GameID:          game.ID,
		ModelName:       models.PredictionModelElo,
		FavoriteTeamID:  away.ID,
		WinProbability:  0.55,
		PredictedMargin: 2.0,
		Retrospective:   true,
		PredictedAt:     time.Now(),
	}
	require.NoError(t, db.Predictions.Upsert(ctx, retro))

	// Re-running overwrites the existing slot instead of duplicating
	pred.WinProbability = 0.70
	require.NoError(t, db.Predictions.Upsert(ctx, pred))

	got, err := db.Predictions.GetByGameID(ctx, game.ID, false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.70, got.WinProbability, 1e-9)
	assert.Equal(t, home.ID, got.FavoriteTeamID)

	gotRetro, err := db.Predictions.GetByGameID(ctx, game.ID, true)
	require.NoError(t, err)
	require.NotNil(t, gotRetro)
	assert.Equal(t, away.ID, gotRetro.FavoriteTeamID)

	// Correction path: drop both modes at once
	require.NoError(t, db.Predictions.DeleteByGameID(ctx, game.ID))

	none, err := db.Predictions.GetByGameID(ctx, game.ID, false)
	require.NoError(t, err)
	assert.Nil(t, none)
	none, err = db.Predictions.GetByGameID(ctx, game.ID, true)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPredictionRepository_Validation(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	base := models.Prediction{
		GameID:          1,
		ModelName:       models.PredictionModelElo,
		FavoriteTeamID:  1,
		WinProbability:  0.6,
		PredictedMargin: 3,
		PredictedAt:     time.Now(),
	}

	// The favorite's probability is at least a coin flip by definition
	underdog := base
	underdog.WinProbability = 0.3
	assert.Error(t, db.Predictions.Upsert(ctx, &underdog))

	negative := base
	negative.PredictedMargin = -1
	assert.Error(t, db.Predictions.Upsert(ctx, &negative))

	unstamped := base
	unstamped.PredictedAt = time.Time{}
	assert.Error(t, db.Predictions.Upsert(ctx, &unstamped))

	assert.Error(t, db.Predictions.Upsert(ctx, nil))
}
