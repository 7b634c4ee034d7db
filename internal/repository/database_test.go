package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations
// Requires a local test database with schema.sql applied:
//   createdb cfbrank_test && psql -d cfbrank_test -f ../../schema.sql

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "cfbrank_test",
		User:     "cfbrank_user",
		Password: "cfbrank_password",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

// cleanupSeason removes every row a test created for its season and
// team id range, so repeated runs start from the same state.
func cleanupSeason(t *testing.T, db *Database, ctx context.Context, season, teamIDFrom, teamIDTo int) {
	t.Helper()

	_, err := db.Pool.Exec(ctx, `DELETE FROM predictions WHERE game_id IN (SELECT id FROM games WHERE season = $1)`, season)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `DELETE FROM ranking_history WHERE season = $1`, season)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `DELETE FROM games WHERE season = $1`, season)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `DELETE FROM seasons WHERE year = $1`, season)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `DELETE FROM ranking_history WHERE team_id IN (SELECT id FROM teams WHERE team_id BETWEEN $1 AND $2)`, teamIDFrom, teamIDTo)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `DELETE FROM teams WHERE team_id BETWEEN $1 AND $2`, teamIDFrom, teamIDTo)
	require.NoError(t, err)
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Test health check
	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	// Test stats
	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestDatabasePing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.Pool.Ping(ctx)
	assert.NoError(t, err, "Should successfully ping database")
}
