package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tables holding the trip to plan. SQLite only.
var tripSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS activities (
		activity_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		duration INTEGER NOT NULL CHECK (duration >= 0),
		location TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS activity_windows (
		activity_id INTEGER NOT NULL REFERENCES activities(activity_id) ON DELETE CASCADE,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL CHECK (end_time >= start_time),
		PRIMARY KEY (activity_id, start_time)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS time_blocks (
		block_index INTEGER PRIMARY KEY,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL CHECK (end_time >= start_time),
		start_location TEXT NOT NULL DEFAULT '',
		end_location TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS travel_legs (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL DEFAULT 0,
		duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
		PRIMARY KEY (origin, destination)
	);
	`,
}

// Cache tables. The DDL is valid for both SQLite and Postgres.
var cacheSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS travel_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_travel_cache_destination_origin
	ON travel_cache(destination, origin);
	`,
}

// Initialize the SQLite database schema: trip tables and caches.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return execSchema(ctx, db, "init schema", append(append([]string{}, tripSchema...), cacheSchema...))
}

// InitPostgresSchema creates the shared cache tables in Postgres. The trip
// itself always lives in SQLite.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return execSchema(ctx, db, "init postgres schema", cacheSchema)
}

func execSchema(ctx context.Context, db *sql.DB, op string, statements []string) error {
	if db == nil {
		return fmt.Errorf("%s: %w", op, errors.New("DB is nil"))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}
