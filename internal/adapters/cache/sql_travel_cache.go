package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
	"strings"
)

// SQLTravelCache is a SQL-backed cache for origin->destination travel
// results, stored in the travel_cache table. Keys are expected to be
// normalized by the caller.
type SQLTravelCache struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLTravelCache(db *sql.DB, dialect Dialect) *SQLTravelCache {
	return &SQLTravelCache{DB: db, Dialect: dialect}
}

// Fetch cached travel for one origin and multiple destinations.
func (s *SQLTravelCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.TravelResult, err error) {
	defer obs.Time(ctx, "travel.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("get travel cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	pred, keyArgs := s.Dialect.in("destination", 2, uniq)
	q := fmt.Sprintf(`
	SELECT destination, distance_meters, duration_seconds
	FROM travel_cache
	WHERE origin = %s
		AND %s;
	`, s.Dialect.placeholder(1), pred)

	rows, err := s.DB.QueryContext(ctx, q, append([]any{origin}, keyArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.TravelResult, len(uniq))
	for rows.Next() {
		var dest string
		var r ports.TravelResult
		if err := rows.Scan(&dest, &r.DistanceMeters, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get travel cache: scan rows: %w", err)
		}
		out[dest] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many travel results for a single origin, replacing older ones.
func (s *SQLTravelCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.TravelResult,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if origin == "" {
		return errors.New("insert travel cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert travel cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := s.Dialect.placeholder
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO travel_cache (origin, destination, distance_meters, duration_seconds)
	VALUES (%s, %s, %s, %s)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds;
	`, p(1), p(2), p(3), p(4)))
	if err != nil {
		return fmt.Errorf("insert travel cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert travel cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert travel cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel cache commit: %w", err)
	}

	return nil
}
