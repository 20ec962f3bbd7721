package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TripSeed is the on-disk form of a trip, in JSON or YAML. Times and
// durations are in planning time units; travel legs are in seconds.
type TripSeed struct {
	Activities []ActivitySeed `json:"activities" yaml:"activities"`
	TimeBlocks []BlockSeed    `json:"time_blocks" yaml:"time_blocks"`
	Travel     []LegSeed      `json:"travel" yaml:"travel"`
}

type WindowSeed struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

type ActivitySeed struct {
	ID       int          `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	Duration int64        `json:"duration" yaml:"duration"`
	Location string       `json:"location" yaml:"location"`
	Windows  []WindowSeed `json:"windows" yaml:"windows"`
}

type BlockSeed struct {
	Index         int    `json:"index" yaml:"index"`
	Start         int64  `json:"start" yaml:"start"`
	End           int64  `json:"end" yaml:"end"`
	StartLocation string `json:"start_location" yaml:"start_location"`
	EndLocation   string `json:"end_location" yaml:"end_location"`
}

type LegSeed struct {
	From            string `json:"from" yaml:"from"`
	To              string `json:"to" yaml:"to"`
	DistanceMeters  int    `json:"distance_meters" yaml:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds" yaml:"duration_seconds"`
}

// LoadTripSeed reads a trip file. ".yaml" and ".yml" files are YAML,
// anything else is JSON.
func LoadTripSeed(path string) (TripSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TripSeed{}, fmt.Errorf("load trip seed: read %q: %w", path, err)
	}

	var seed TripSeed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &seed)
	default:
		err = json.Unmarshal(data, &seed)
	}
	if err != nil {
		return TripSeed{}, fmt.Errorf("load trip seed: parse %q: %w", path, err)
	}

	if err := seed.Validate(); err != nil {
		return TripSeed{}, fmt.Errorf("load trip seed: %w", err)
	}
	return seed, nil
}

// Validate checks the seed before anything is written.
func (s TripSeed) Validate() error {
	ids := map[int]struct{}{}
	for i, a := range s.Activities {
		if a.ID <= 0 {
			return fmt.Errorf("activity at index %d: invalid id %d", i+1, a.ID)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("activity at index %d: duplicate id %d", i+1, a.ID)
		}
		ids[a.ID] = struct{}{}

		if strings.TrimSpace(a.Title) == "" {
			return fmt.Errorf("activity %d: title cannot be empty", a.ID)
		}
		if a.Duration < 0 {
			return fmt.Errorf("activity %d: negative duration %d", a.ID, a.Duration)
		}
		if len(a.Windows) == 0 {
			return fmt.Errorf("activity %d: needs at least one window", a.ID)
		}
		for _, w := range a.Windows {
			if w.Start > w.End {
				return fmt.Errorf("activity %d: window [%d, %d) starts after it ends", a.ID, w.Start, w.End)
			}
		}
	}

	indexes := map[int]struct{}{}
	for _, b := range s.TimeBlocks {
		if _, dup := indexes[b.Index]; dup {
			return fmt.Errorf("time block %d: duplicate index", b.Index)
		}
		indexes[b.Index] = struct{}{}

		if b.Start > b.End {
			return fmt.Errorf("time block %d: starts after it ends", b.Index)
		}
	}

	for i, l := range s.Travel {
		if strings.TrimSpace(l.From) == "" || strings.TrimSpace(l.To) == "" {
			return fmt.Errorf("travel leg at index %d: from and to are required", i+1)
		}
		if l.DurationSeconds < 0 {
			return fmt.Errorf("travel leg at index %d: negative duration", i+1)
		}
	}
	return nil
}

// SeedTrip replaces the stored trip with seed in one transaction.
func SeedTrip(ctx context.Context, db *sql.DB, seed TripSeed) error {
	if db == nil {
		return errors.New("seed trip: DB is nil")
	}
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("seed trip: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"activity_windows", "activities", "time_blocks", "travel_legs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed trip: clear %s: %w", table, err)
		}
	}

	for _, a := range seed.Activities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activities (activity_id, title, duration, location) VALUES (?, ?, ?, ?);`,
			a.ID, strings.TrimSpace(a.Title), a.Duration, strings.TrimSpace(a.Location),
		); err != nil {
			return fmt.Errorf("seed trip: insert activity_id=%d: %w", a.ID, err)
		}

		for _, w := range a.Windows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO activity_windows (activity_id, start_time, end_time) VALUES (?, ?, ?);`,
				a.ID, w.Start, w.End,
			); err != nil {
				return fmt.Errorf("seed trip: insert window for activity_id=%d: %w", a.ID, err)
			}
		}
	}

	for _, b := range seed.TimeBlocks {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO time_blocks (block_index, start_time, end_time, start_location, end_location)
		VALUES (?, ?, ?, ?, ?);`,
			b.Index, b.Start, b.End, strings.TrimSpace(b.StartLocation), strings.TrimSpace(b.EndLocation),
		); err != nil {
			return fmt.Errorf("seed trip: insert block_index=%d: %w", b.Index, err)
		}
	}

	for _, l := range seed.Travel {
		if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO travel_legs (origin, destination, distance_meters, duration_seconds)
		VALUES (?, ?, ?, ?);`,
			strings.TrimSpace(l.From), strings.TrimSpace(l.To), l.DistanceMeters, l.DurationSeconds,
		); err != nil {
			return fmt.Errorf("seed trip: insert leg %q -> %q: %w", l.From, l.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trip: commit tx: %w", err)
	}

	return nil
}
