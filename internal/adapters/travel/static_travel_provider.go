package travel

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/ports"
)

// Leg is one known travel time, e.g. from a seeded trip file.
type Leg struct {
	From, To string
	Meters   int
	Seconds  int
}

// StaticTravelProvider answers from a fixed table and never does I/O.
type StaticTravelProvider struct {
	m map[string]ports.TravelResult
}

// NewStaticTravelProvider builds the table. With symmetric set each leg is
// also usable in reverse unless the reverse is listed on its own.
func NewStaticTravelProvider(legs []Leg, symmetric bool) *StaticTravelProvider {
	m := make(map[string]ports.TravelResult, 2*len(legs))
	for _, l := range legs {
		m[key(l.From, l.To)] = ports.TravelResult{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
	}
	if symmetric {
		for _, l := range legs {
			if _, ok := m[key(l.To, l.From)]; !ok {
				m[key(l.To, l.From)] = ports.TravelResult{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
			}
		}
	}
	return &StaticTravelProvider{m: m}
}

// LegsFromTrip converts stored trip legs.
func LegsFromTrip(legs []ports.TravelLeg) []Leg {
	out := make([]Leg, 0, len(legs))
	for _, l := range legs {
		out = append(out, Leg{From: l.From, To: l.To, Meters: l.DistanceMeters, Seconds: l.DurationSeconds})
	}
	return out
}

func key(from, to string) string { return normalize(from) + "|" + normalize(to) }

func (p *StaticTravelProvider) GetTravel(ctx context.Context, origin, destination string) (ports.TravelResult, error) {
	if normalize(origin) == normalize(destination) {
		return ports.TravelResult{}, nil
	}

	r, ok := p.m[key(origin, destination)]
	if !ok {
		return ports.TravelResult{}, fmt.Errorf("%q -> %q: %w", origin, destination, ports.ErrNoRoute)
	}
	return r, nil
}

func (p *StaticTravelProvider) GetTravels(ctx context.Context, origin string, destinations []string) (map[string]ports.TravelResult, error) {
	out := make(map[string]ports.TravelResult, len(destinations))
	for _, d := range destinations {
		if normalize(d) == normalize(origin) {
			continue
		}
		if r, ok := p.m[key(origin, d)]; ok {
			out[d] = r
		}
	}
	return out, nil
}
