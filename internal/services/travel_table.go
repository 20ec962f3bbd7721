package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 5

type legKey struct{ from, to domain.Location }

// TravelTable is an immutable snapshot of travel durations between a fixed
// set of locations, converted to planning time units. Its Cost method is the
// pure domain.TravelCost handed to the planner.
type TravelTable struct {
	legs map[legKey]domain.Duration
}

// Cost reports the transit between two locations, or false when the
// provider knew no route.
func (t *TravelTable) Cost(from, to domain.Location) (domain.Transit, bool) {
	d, ok := t.legs[legKey{from, to}]
	if !ok {
		return domain.Transit{}, false
	}
	return domain.Transit{From: from, To: to, Duration: d}, true
}

func (t *TravelTable) Len() int { return len(t.legs) }

// toUnits rounds seconds up to whole planning units so that travel is
// never shorter in the plan than in reality.
func toUnits(seconds int, unit time.Duration) domain.Duration {
	if seconds <= 0 {
		return 0
	}
	per := int64(unit / time.Second)
	return domain.Duration((int64(seconds) + per - 1) / per)
}

// FetchTravelTable fetches one origin->many row per location with at most
// concurrency rows in flight. Matrix providers answer a row in one call;
// plain providers are asked pair by pair. Unknown routes are left out of
// the table; any other provider error aborts the fetch.
func FetchTravelTable(
	ctx context.Context,
	provider ports.TravelProvider,
	locations []domain.Location,
	unit time.Duration,
	concurrency int,
) (*TravelTable, error) {
	if provider == nil {
		return nil, errors.New("fetch travel table: provider is nil")
	}
	if unit < time.Second {
		return nil, fmt.Errorf("fetch travel table: time unit %s is below one second", unit)
	}
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}

	locs := lo.Uniq(lo.Reject(locations, func(l domain.Location, _ int) bool { return l.IsZero() }))
	slices.Sort(locs)

	rows := make([]map[string]ports.TravelResult, len(locs))
	mp, hasMatrix := provider.(ports.TravelMatrixProvider)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, origin := range locs {
		targets := lo.Map(lo.Without(locs, origin), func(l domain.Location, _ int) string { return string(l) })
		if len(targets) == 0 {
			continue
		}

		g.Go(func() error {
			if hasMatrix {
				res, err := mp.GetTravels(gctx, string(origin), targets)
				if err != nil {
					return fmt.Errorf("get travels from %q: %w", origin, err)
				}
				rows[i] = res
				return nil
			}

			res := make(map[string]ports.TravelResult, len(targets))
			for _, to := range targets {
				r, err := provider.GetTravel(gctx, string(origin), to)
				if errors.Is(err, ports.ErrNoRoute) {
					continue
				}
				if err != nil {
					return fmt.Errorf("get travel %q -> %q: %w", origin, to, err)
				}
				res[to] = r
			}
			rows[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch travel table: %w", err)
	}

	table := &TravelTable{legs: make(map[legKey]domain.Duration, len(locs)*len(locs))}
	for i, origin := range locs {
		for to, r := range rows[i] {
			if r.DurationSeconds < 0 {
				return nil, fmt.Errorf("fetch travel table: negative duration %q -> %q", origin, to)
			}
			table.legs[legKey{origin, domain.Location(to)}] = toUnits(r.DurationSeconds, unit)
		}
	}
	return table, nil
}
