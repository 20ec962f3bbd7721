package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// TravelLeg is a known travel time between two locations, recorded with
// the trip rather than fetched from a routing service.
type TravelLeg struct {
	From            string
	To              string
	DistanceMeters  int
	DurationSeconds int
}

// Port: a boundary for retrieving the trip to plan from a data source.
type TripRepository interface {
	// Activities ordered by id, each with its legal time windows.
	ListActivities(ctx context.Context) ([]domain.Activity, error)
	// Time blocks ordered by index, with empty timelines.
	ListTimeBlocks(ctx context.Context) ([]domain.TimeBlock, error)
	ListTravelLegs(ctx context.Context) ([]TravelLeg, error)
}
