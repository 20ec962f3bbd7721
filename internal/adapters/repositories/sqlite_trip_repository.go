package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// Return all activities with their legal windows.
func (s *SqliteTripRepository) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	windows, err := s.windows(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		activity_id,
		title,
		duration,
		location
	FROM activities
	ORDER BY activity_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list activities: query activities table: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0, 16)
	for rows.Next() {
		var a domain.Activity
		var loc string
		if err := rows.Scan(&a.ID, &a.Title, &a.Duration, &loc); err != nil {
			return nil, fmt.Errorf("list activities: scan row: %w", err)
		}
		a.Location = domain.Location(loc)

		a.Legal, err = domain.LegalWindows(windows[a.ID]...)
		if err != nil {
			return nil, fmt.Errorf("list activities: activity_id=%d: %w", a.ID, err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: row iteration: %w", err)
	}

	return activities, nil
}

func (s *SqliteTripRepository) windows(ctx context.Context) (map[int][]domain.Interval, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT activity_id, start_time, end_time
	FROM activity_windows
	ORDER BY activity_id, start_time;
	`)
	if err != nil {
		return nil, fmt.Errorf("list activities: query activity_windows table: %w", err)
	}
	defer rows.Close()

	out := map[int][]domain.Interval{}
	for rows.Next() {
		var id int
		var w domain.Interval
		if err := rows.Scan(&id, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("list activities: scan window: %w", err)
		}
		out[id] = append(out[id], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: window iteration: %w", err)
	}

	return out, nil
}

// Return all time blocks with empty timelines.
func (s *SqliteTripRepository) ListTimeBlocks(ctx context.Context) ([]domain.TimeBlock, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		block_index,
		start_time,
		end_time,
		start_location,
		end_location
	FROM time_blocks
	ORDER BY block_index;
	`)
	if err != nil {
		return nil, fmt.Errorf("list time blocks: query time_blocks table: %w", err)
	}
	defer rows.Close()

	var blocks []domain.TimeBlock
	for rows.Next() {
		var idx int
		var iv domain.Interval
		var from, to string
		if err := rows.Scan(&idx, &iv.Start, &iv.End, &from, &to); err != nil {
			return nil, fmt.Errorf("list time blocks: scan row: %w", err)
		}
		blocks = append(blocks, domain.NewTimeBlock(idx, iv, domain.Location(from), domain.Location(to)))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list time blocks: row iteration: %w", err)
	}

	return blocks, nil
}

func (s *SqliteTripRepository) ListTravelLegs(ctx context.Context) ([]ports.TravelLeg, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT origin, destination, distance_meters, duration_seconds
	FROM travel_legs
	ORDER BY origin, destination;
	`)
	if err != nil {
		return nil, fmt.Errorf("list travel legs: query travel_legs table: %w", err)
	}
	defer rows.Close()

	var legs []ports.TravelLeg
	for rows.Next() {
		var l ports.TravelLeg
		if err := rows.Scan(&l.From, &l.To, &l.DistanceMeters, &l.DurationSeconds); err != nil {
			return nil, fmt.Errorf("list travel legs: scan row: %w", err)
		}
		legs = append(legs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list travel legs: row iteration: %w", err)
	}

	return legs, nil
}
