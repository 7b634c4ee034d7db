package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTeams(t *testing.T, db *Database, ctx context.Context, specs []*models.Team) {
	t.Helper()
	for _, team := range specs {
		require.NoError(t, db.Teams.Upsert(ctx, team))
	}
}

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	cleanupSeason(t, db, ctx, 2911, 29400, 29499)

	home := &models.Team{TeamID: 29400, TeamCode: "HOME", SchoolName: "Home University"}
	away := &models.Team{TeamID: 29401, TeamCode: "AWAY", SchoolName: "Away University"}
	require.NoError(t, db.Teams.Upsert(ctx, home))
	require.NoError(t, db.Teams.Upsert(ctx, away))

	game := &models.Game{
		GameID:       294001,
		Season:       2911,
		Week:         3,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamCode: "HOME",
		AwayTeamCode: "AWAY",
		GameDate:     time.Now().Add(24 * time.Hour),
		Status:       "Scheduled",
	}

	// Insert game
	require.NoError(t, db.Games.Upsert(ctx, game), "Should insert game")

	retrieved, err := db.Games.GetByGameID(ctx, 294001)
	require.NoError(t, err)
	assert.Equal(t, 2911, retrieved.Season)
	assert.Equal(t, "Scheduled", retrieved.Status)
	assert.False(t, retrieved.Processed)

	// Final score arrives
	game.Status = "Final"
	game.HomeScore = sql.NullInt32{Int32: 24, Valid: true}
	game.AwayScore = sql.NullInt32{Int32: 17, Valid: true}
	require.NoError(t, db.Games.Upsert(ctx, game))

	updated, err := db.Games.GetByGameID(ctx, 294001)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Status)
	assert.Equal(t, int32(24), updated.HomeScore.Int32)
	assert.Equal(t, 7, updated.Margin())
}

func TestGameRepository_UpsertPreservesProcessed(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	cleanupSeason(t, db, ctx, 2912, 29500, 29599)

	home := &models.Team{TeamID: 29500, TeamCode: "PH", SchoolName: "Processed Home"}
	away := &models.Team{TeamID: 29501, TeamCode: "PA", SchoolName: "Processed Away"}
	seedTeams(t, db, ctx, []*models.Team{home, away})

	game := &models.Game{
		GameID: 295001, Season: 2912, Week: 1,
		HomeTeamID: home.ID, AwayTeamID: away.ID,
		HomeTeamCode: "PH", AwayTeamCode: "PA",
		GameDate: time.Now(), Status: "Final",
		HomeScore: sql.NullInt32{Int32: 31, Valid: true},
		AwayScore: sql.NullInt32{Int32: 10, Valid: true},
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	require.NoError(t, db.WithTx(ctx, func(tx pgx.Tx) error {
		return db.Games.MarkProcessedTx(ctx, tx, game.ID)
	}))

	// Re-ingesting the schedule must not reset the processed flag
	require.NoError(t, db.Games.Upsert(ctx, game))
	assert.True(t, game.Processed, "re-ingestion must not unprocess a game")
}

func TestGameRepository_ListQualifying(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	cleanupSeason(t, db, ctx, 2913, 29600, 29699)

	a := &models.Team{TeamID: 29600, TeamCode: "QA", SchoolName: "Qual A"}
	b := &models.Team{TeamID: 29601, TeamCode: "QB", SchoolName: "Qual B"}
	fcs := &models.Team{TeamID: 29602, TeamCode: "QF", SchoolName: "Qual FCS",
		Division: sql.NullString{String: models.DivisionFCS, Valid: true}}
	seedTeams(t, db, ctx, []*models.Team{a, b, fcs})

	final := sql.NullInt32{Int32: 21, Valid: true}
	lost := sql.NullInt32{Int32: 14, Valid: true}

	games := []*models.Game{
		// Qualifying: final + processed + not excluded
		{GameID: 296001, Season: 2913, Week: 1, HomeTeamID: a.ID, AwayTeamID: b.ID,
			HomeTeamCode: "QA", AwayTeamCode: "QB", GameDate: time.Now(), Status: "Final",
			HomeScore: final, AwayScore: lost},
		// Excluded FCS game: never qualifying even when processed
		{GameID: 296002, Season: 2913, Week: 1, HomeTeamID: a.ID, AwayTeamID: fcs.ID,
			HomeTeamCode: "QA", AwayTeamCode: "QF", GameDate: time.Now(), Status: "Final",
			HomeScore: final, AwayScore: lost, ExcludedFromRankings: true},
		// Final but not yet processed
		{GameID: 296003, Season: 2913, Week: 2, HomeTeamID: b.ID, AwayTeamID: a.ID,
			HomeTeamCode: "QB", AwayTeamCode: "QA", GameDate: time.Now(), Status: "Final",
			HomeScore: final, AwayScore: lost},
	}
	for _, game := range games {
		require.NoError(t, db.Games.Upsert(ctx, game))
	}

	require.NoError(t, db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := db.Games.MarkProcessedTx(ctx, tx, games[0].ID); err != nil {
			return err
		}
		return db.Games.MarkProcessedTx(ctx, tx, games[1].ID)
	}))

	qualifying, err := db.Games.ListQualifying(ctx, 2913)
	require.NoError(t, err)
	require.Len(t, qualifying, 1, "only the processed, non-excluded final qualifies")
	assert.Equal(t, 296001, qualifying[0].GameID)

	byTeam, err := db.Games.ListQualifyingByTeam(ctx, a.ID, 2913)
	require.NoError(t, err)
	require.Len(t, byTeam, 1)
	assert.Equal(t, 296001, byTeam[0].GameID)

	unprocessed, err := db.Games.ListFinalUnprocessed(ctx, 2913)
	require.NoError(t, err)
	require.Len(t, unprocessed, 1)
	assert.Equal(t, 296003, unprocessed[0].GameID)
}

func TestGameRepository_SetExcluded(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	cleanupSeason(t, db, ctx, 2914, 29700, 29799)

	a := &models.Team{TeamID: 29700, TeamCode: "XA", SchoolName: "Excl A"}
	b := &models.Team{TeamID: 29701, TeamCode: "XB", SchoolName: "Excl B"}
	seedTeams(t, db, ctx, []*models.Team{a, b})

	game := &models.Game{
		GameID: 297001, Season: 2914, Week: 1,
		HomeTeamID: a.ID, AwayTeamID: b.ID,
		HomeTeamCode: "XA", AwayTeamCode: "XB",
		GameDate: time.Now(), Status: "Final",
		HomeScore: sql.NullInt32{Int32: 45, Valid: true},
		AwayScore: sql.NullInt32{Int32: 3, Valid: true},
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	require.NoError(t, db.Games.SetExcluded(ctx, game.ID, true))

	retrieved, err := db.Games.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.ExcludedFromRankings)
}
