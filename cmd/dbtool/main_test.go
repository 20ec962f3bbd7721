package main

import (
	"context"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	seedPath := filepath.Join(dir, "trip.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`
activities:
  - {id: 1, title: walk, duration: 1, location: park, windows: [{start: 0, end: 10}]}
time_blocks:
  - {index: 0, start: 0, end: 10, start_location: hotel, end_location: hotel}
travel:
  - {from: hotel, to: park, duration_seconds: 300}
`), 0o644))

	ctx := context.Background()
	require.NoError(t, executeContext(ctx, "init-sqlite", "--db", dbPath))
	require.NoError(t, executeContext(ctx, "seed", "--db", dbPath, "--file", seedPath))

	sqlite, err := db.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	defer sqlite.Close()

	repo := repositories.NewSqliteTripRepository(sqlite)
	acts, err := repo.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "walk", acts[0].Title)

	legs, err := repo.ListTravelLegs(ctx)
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, 300, legs[0].DurationSeconds)
}

func TestSeedCommandMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := executeContext(context.Background(), "seed",
		"--db", filepath.Join(dir, "app.db"),
		"--file", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestInitPostgresRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	err := executeContext(context.Background(), "init-postgres")
	require.Error(t, err)
}
