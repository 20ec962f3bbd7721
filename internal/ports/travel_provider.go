package ports

import (
	"context"
	"errors"
)

// ErrNoRoute means the provider knows no way between two locations.
var ErrNoRoute = errors.New("no route between locations")

// Distance and travel duration between two locations.
type TravelResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between locations.
type TravelProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetTravel(ctx context.Context, origin string, destination string) (TravelResult, error)
}

// Optional extension of TravelProvider that supports batched lookups.
type TravelMatrixProvider interface {
	TravelProvider
	// Return travel from one origin to many destinations. Unreachable
	// destinations are missing from the map.
	GetTravels(ctx context.Context, origin string, destinations []string) (map[string]TravelResult, error)
}
