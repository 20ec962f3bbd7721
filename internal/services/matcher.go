package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/search"
	"slices"
)

const unassigned = -1

// matchingState is one node of the depth-first search that pairs clusters
// with blocks. assigned maps a block position to a cluster position.
type matchingState struct {
	clusters  []domain.Cluster
	remaining []int
	assigned  []int
}

func newMatchingState(clusters []domain.Cluster, blockCount int) *matchingState {
	remaining := make([]int, len(clusters))
	for i := range clusters {
		remaining[i] = i
	}
	assigned := make([]int, blockCount)
	for i := range assigned {
		assigned[i] = unassigned
	}
	return &matchingState{clusters: clusters, remaining: remaining, assigned: assigned}
}

func (s *matchingState) IsGoal() bool { return len(s.remaining) == 0 }

// Successors branches on every unclaimed block the first remaining cluster
// could occupy.
func (s *matchingState) Successors() ([]*matchingState, error) {
	if len(s.remaining) == 0 {
		return nil, nil
	}

	next := s.remaining[0]
	out := make([]*matchingState, 0, len(s.clusters[next].Feasible))
	for _, pos := range s.clusters[next].Feasible {
		if pos < 0 || pos >= len(s.assigned) {
			return nil, invariantf("cluster %s: feasible block %d out of range", s.clusters[next].Key(), pos)
		}
		if s.assigned[pos] != unassigned {
			continue
		}
		assigned := slices.Clone(s.assigned)
		assigned[pos] = next
		out = append(out, &matchingState{
			clusters:  s.clusters,
			remaining: slices.Clone(s.remaining[1:]),
			assigned:  assigned,
		})
	}
	return out, nil
}

type memoKey struct {
	block   int
	members string
}

// matchClusters searches for a cluster-to-block assignment in which every
// pair schedules. A complete assignment whose blocks cannot all be scheduled
// is skipped and the search resumes.
func (r *planRun) matchClusters(ctx context.Context, clusters []domain.Cluster) ([]domain.TimeBlock, bool, error) {
	if r.onMatch != nil {
		r.onMatch(clusterKeys(clusters))
	}
	if len(clusters) > len(r.blocks) {
		return nil, false, nil
	}

	eng := search.New[*matchingState](search.NewStack[*matchingState](), newMatchingState(clusters, len(r.blocks)))
	defer func() { r.stats.matchExpanded += eng.Expanded() }()

	for {
		goal, ok, err := eng.NextGoal(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("match clusters: %w", err)
		}
		if !ok {
			return nil, false, nil
		}

		out, ok, err := r.scheduleAssignment(ctx, goal)
		if err != nil || ok {
			return out, ok, err
		}
	}
}

// scheduleAssignment schedules every assigned block. Unassigned blocks are
// returned untouched.
func (r *planRun) scheduleAssignment(ctx context.Context, st *matchingState) ([]domain.TimeBlock, bool, error) {
	out := make([]domain.TimeBlock, len(r.blocks))
	for pos, ci := range st.assigned {
		if ci == unassigned {
			out[pos] = r.blocks[pos].Clone()
			continue
		}

		blk, ok, err := r.schedule(ctx, pos, st.clusters[ci])
		if err != nil || !ok {
			return nil, false, err
		}
		out[pos] = blk
	}
	return out, true, nil
}

// schedule runs the block scheduler for one pair, reusing the answer when
// the same member set was already tried on the same block.
func (r *planRun) schedule(ctx context.Context, pos int, c domain.Cluster) (domain.TimeBlock, bool, error) {
	key := memoKey{block: pos, members: c.Key()}
	if res, ok := r.memo[key]; ok {
		r.stats.memoHits++
		return res.block.Clone(), res.ok, nil
	}

	acts := make([]domain.Activity, len(c.Members))
	for i, m := range c.Members {
		acts[i] = r.acts[m]
	}

	res, err := scheduleBlock(ctx, r.blocks[pos], acts, r.travel)
	r.stats.scheduleExpanded += res.expanded
	if err != nil {
		return domain.TimeBlock{}, false, err
	}
	r.memo[key] = res
	return res.block.Clone(), res.ok, nil
}
