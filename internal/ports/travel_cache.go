package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// TravelCache stores travel results per origin. Keys are expected to be
// normalized by the caller.
type TravelCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]TravelResult, error)
	PutMany(ctx context.Context, origin string, results map[string]TravelResult) error
}

// GeocodeCache stores resolved coordinates per address.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
