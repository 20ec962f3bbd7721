package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PlanItineraryRequest struct {
	// Activities and Blocks inline the trip. When both are empty the trip
	// is read from the repository.
	Activities []domain.Activity
	Blocks     []domain.TimeBlock

	// TravelUnit is the wall-clock length of one planning time unit.
	TravelUnit       time.Duration
	FetchConcurrency int
	Planner          PlannerConfig
}

// PlanItinerary loads the trip if needed, prefetches every travel leg the
// search may ask for, and runs the planner on the in-memory table.
func PlanItinerary(
	ctx context.Context,
	req PlanItineraryRequest,
	repo ports.TripRepository,
	provider ports.TravelProvider,
) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, "services.PlanItinerary")(&err)

	acts, blocks := req.Activities, req.Blocks
	if len(acts) == 0 && len(blocks) == 0 {
		if repo == nil {
			return domain.Itinerary{}, errors.New("plan itinerary: no trip given and no repository")
		}
		if acts, err = repo.ListActivities(ctx); err != nil {
			return domain.Itinerary{}, fmt.Errorf("plan itinerary: list activities: %w", err)
		}
		if blocks, err = repo.ListTimeBlocks(ctx); err != nil {
			return domain.Itinerary{}, fmt.Errorf("plan itinerary: list time blocks: %w", err)
		}
	}

	unit := req.TravelUnit
	if unit == 0 {
		unit = time.Minute
	}

	locations := make([]domain.Location, 0, len(acts)+2*len(blocks))
	for _, a := range acts {
		locations = append(locations, a.Location)
	}
	for _, b := range blocks {
		locations = append(locations, b.StartLocation, b.EndLocation)
	}

	table, err := FetchTravelTable(ctx, provider, locations, unit, req.FetchConcurrency)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("plan itinerary: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Int("activities", len(acts)).
		Int("blocks", len(blocks)).
		Int("legs", table.Len()).
		Msg("travel table ready")

	planner := NewPlanner(table.Cost, req.Planner)
	out, ok, err := planner.ClusterAndSchedule(ctx, acts, blocks)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("plan itinerary: %w", err)
	}
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("plan itinerary: %w", ErrNoItinerary)
	}

	return domain.Itinerary{
		ID:        uuid.NewString(),
		PlannedAt: time.Now().UTC(),
		Blocks:    out,
	}, nil
}
