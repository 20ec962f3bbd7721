package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/search"

	"github.com/samber/lo"
)

// schedulingState is one node of the A* search that orders a block's
// activities. Every child owns its own timeline and legal-time sets.
type schedulingState struct {
	block     domain.TimeBlock
	here      domain.Location
	remaining []domain.Activity
	travel    domain.TravelCost
}

// priority is g + h: the time already used plus the work still to place.
// Travel is left out of h so it never overestimates.
func (s *schedulingState) priority() int64 {
	h := lo.SumBy(s.remaining, func(a domain.Activity) domain.Duration { return a.Duration })
	return int64(s.block.LastEndTime()) + int64(h)
}

func (s *schedulingState) IsGoal() bool {
	if len(s.remaining) > 0 {
		return false
	}
	last, ok := s.block.Timeline.Last()
	if !ok {
		return false
	}
	m, ok := last.Item.(domain.Marker)
	return ok && m.Kind == domain.MarkerEnd
}

func (s *schedulingState) Successors() ([]*schedulingState, error) {
	if len(s.remaining) == 0 {
		child, ok, err := s.finish()
		if err != nil || !ok {
			return nil, err
		}
		return []*schedulingState{child}, nil
	}

	out := make([]*schedulingState, 0, len(s.remaining))
	for i := range s.remaining {
		child, ok, err := s.visit(i)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, child)
		}
	}
	return out, nil
}

// departure is where a travel leg leaving the current position may start.
// A zero-length entry sitting on the last end time already owns that tick.
func departure(blk *domain.TimeBlock, leg domain.Duration) domain.Time {
	from := max(blk.LastEndTime(), blk.Interval.Start)
	if last, ok := blk.Timeline.Last(); ok && leg > 0 && last.Item.Length() == 0 && last.Start == from {
		from++
	}
	return from
}

// visit places remaining[i] after a travel leg from the current position and
// forward-checks the rest. It reports false when the activity cannot go next.
func (s *schedulingState) visit(i int) (*schedulingState, bool, error) {
	act := s.remaining[i]

	leg, ok := s.travel.Leg(s.here, act.Location)
	if !ok {
		return nil, false, nil
	}

	blk := s.block.Clone()
	from := departure(&blk, leg.Duration)
	at, ok := blk.Timeline.EarliestLegalAfter(from.Add(leg.Duration), &act.Legal, act)
	if !ok {
		return nil, false, nil
	}

	// travel ends right as the activity starts
	if leg.Duration > 0 && !blk.Timeline.ScheduleAt(at-domain.Time(leg.Duration), leg) {
		return nil, false, invariantf("block %d: travel %s refused at %d", blk.Index, leg.Label(), at-domain.Time(leg.Duration))
	}
	if !blk.Timeline.ScheduleAt(at, act.Placed()) {
		return nil, false, invariantf("block %d: activity %q refused at %d", blk.Index, act.Title, at)
	}

	bound := blk.LastEndTime()
	rest := make([]domain.Activity, 0, len(s.remaining)-1)
	for j, other := range s.remaining {
		if j == i {
			continue
		}
		c := other.Clone()
		if !c.Legal.RestrictToAfter(bound) {
			return nil, false, invariantf("activity %q: legal time holds foreign items", c.Title)
		}
		if !c.Fits() {
			return nil, false, nil
		}
		rest = append(rest, c)
	}

	here := s.here
	if !act.Location.IsZero() {
		here = act.Location
	}
	return &schedulingState{block: blk, here: here, remaining: rest, travel: s.travel}, true, nil
}

// finish travels to the block's end location and closes the timeline with
// the end marker.
func (s *schedulingState) finish() (*schedulingState, bool, error) {
	blk := s.block.Clone()

	leg, ok := s.travel.Leg(s.here, blk.EndLocation)
	if !ok {
		return nil, false, nil
	}
	if leg.Duration > 0 && !blk.Timeline.ScheduleAt(departure(&blk, leg.Duration), leg) {
		return nil, false, nil
	}

	open := blk.OpenLegal()
	end := domain.Marker{Kind: domain.MarkerEnd, Location: blk.EndLocation}
	at, ok := blk.Timeline.EarliestLegalAfter(blk.LastEndTime(), &open, end)
	if !ok {
		return nil, false, nil
	}
	if !blk.Timeline.ScheduleAt(at, end) {
		return nil, false, invariantf("block %d: end marker refused at %d", blk.Index, at)
	}

	return &schedulingState{block: blk, here: blk.EndLocation, travel: s.travel}, true, nil
}

// newSchedulingState builds the root state for ordering acts inside block:
// the start marker goes in the slot before the block and every activity's
// legal time is clipped to the block. It reports false when some activity
// has no room left inside the block.
func newSchedulingState(block domain.TimeBlock, acts []domain.Activity, travel domain.TravelCost) (*schedulingState, bool, error) {
	blk := block.Clone()
	if blk.Timeline.IsEmpty() {
		if !blk.Timeline.ScheduleLead(domain.Marker{Kind: domain.MarkerStart, Location: blk.StartLocation}) {
			return nil, false, invariantf("block %d: start marker refused", blk.Index)
		}
	}

	remaining := make([]domain.Activity, 0, len(acts))
	for _, a := range acts {
		c := a.Within(blk.Interval)
		if !c.Fits() {
			return nil, false, nil
		}
		remaining = append(remaining, c)
	}

	return &schedulingState{
		block:     blk,
		here:      blk.StartLocation,
		remaining: remaining,
		travel:    travel,
	}, true, nil
}

type scheduleResult struct {
	block    domain.TimeBlock
	ok       bool
	expanded int
}

// scheduleBlock runs the A* search that orders acts inside block. The block
// passed in is never modified.
func scheduleBlock(ctx context.Context, block domain.TimeBlock, acts []domain.Activity, travel domain.TravelCost) (scheduleResult, error) {
	res := scheduleResult{block: block}

	root, ok, err := newSchedulingState(block, acts, travel)
	if err != nil || !ok {
		return res, err
	}

	eng := search.New[*schedulingState](search.NewPriorityQueue((*schedulingState).priority), root)
	goal, ok, err := eng.NextGoal(ctx)
	res.expanded = eng.Expanded()
	if err != nil {
		return res, fmt.Errorf("schedule block %d: %w", block.Index, err)
	}
	if ok {
		res.block, res.ok = goal.block, true
	}
	return res, nil
}
