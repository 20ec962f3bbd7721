package services

import (
	"cmp"
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"slices"

	"github.com/samber/lo"
)

// blacklist records partitions, by member-set keys, already proven not to
// lead anywhere.
type blacklist struct {
	entries [][]string
}

// hits reports whether some recorded entry is contained in keys: every
// member set of the entry appears as a cluster of the partition.
func (bl *blacklist) hits(keys []string) bool {
	for _, entry := range bl.entries {
		if containsAll(keys, entry) {
			return true
		}
	}
	return false
}

// add records keys unless an existing entry already covers them.
func (bl *blacklist) add(keys []string) {
	if bl.hits(keys) {
		return
	}
	bl.entries = append(bl.entries, slices.Clone(keys))
}

func containsAll(set, sub []string) bool {
	for _, k := range sub {
		if !slices.Contains(set, k) {
			return false
		}
	}
	return true
}

// clusterAndSchedule is the top of the pipeline. It grows clusters along
// bridges in cost order until the partition can be matched to blocks and
// every block schedules.
func (r *planRun) clusterAndSchedule(ctx context.Context) ([]domain.TimeBlock, bool, error) {
	for i, a := range r.acts {
		if !a.Fits() {
			return nil, false, &ActivityError{ActivityID: a.ID, Title: a.Title, Err: fmt.Errorf("activity index %d: %w", i, ErrActivityInfeasible)}
		}
	}
	if len(r.acts) == 0 {
		out := make([]domain.TimeBlock, len(r.blocks))
		for i := range r.blocks {
			out[i] = r.blocks[i].Clone()
		}
		return out, true, nil
	}

	partition := make([]domain.Cluster, len(r.acts))
	for i := range r.acts {
		partition[i] = domain.NewCluster(i, i, r.acts, r.blocks)
		// joins only shrink feasibility, so this activity can never be placed
		if len(partition[i].Feasible) == 0 {
			r.log.Debug().Str("activity", r.acts[i].Title).Msg("activity fits no block")
			return nil, false, nil
		}
	}

	if len(partition) <= len(r.blocks) {
		out, ok, err := r.matchClusters(ctx, partition)
		if err != nil || ok {
			return out, ok, err
		}
	}

	bridges := r.bridges()
	r.log.Debug().Int("activities", len(r.acts)).Int("bridges", len(bridges)).Msg("clustering")

	return r.tryRange(ctx, partition, bridges, 0, &blacklist{})
}

// bridges lists one candidate bridge per activity pair that has a route,
// cheapest first. Equal costs keep discovery order.
func (r *planRun) bridges() []domain.Bridge {
	var out []domain.Bridge
	for i := 0; i < len(r.acts); i++ {
		for j := i + 1; j < len(r.acts); j++ {
			leg, ok := r.travel.Leg(r.acts[i].Location, r.acts[j].Location)
			if !ok {
				continue
			}
			out = append(out, domain.Bridge{Transit: leg, A: i, B: j})
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Bridge) int { return cmp.Compare(a.Cost(), b.Cost()) })
	return out
}

// tryRange merges along bridges[from:], recursing after every merge that
// leaves some block for the union. Each call works on its own partition
// slice; nothing a child does is visible to its caller.
func (r *planRun) tryRange(ctx context.Context, partition []domain.Cluster, bridges []domain.Bridge, from int, bl *blacklist) ([]domain.TimeBlock, bool, error) {
	for i := from; i < len(bridges); i++ {
		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("cluster activities: %w", err)
		}

		b := bridges[i]
		ai, bi := clusterOf(partition, b.A), clusterOf(partition, b.B)
		if ai < 0 || bi < 0 {
			return nil, false, invariantf("bridge %d-%d: endpoint in no cluster", b.A, b.B)
		}
		if ai == bi {
			continue
		}

		union := partition[ai].Join(partition[bi], b, r.acts, r.blocks)
		if len(union.Feasible) == 0 {
			bl.add([]string{union.Key()})
			continue
		}

		next := merge(partition, ai, bi, union)
		keys := clusterKeys(next)
		if bl.hits(keys) {
			r.stats.blacklistHits++
			continue
		}

		if len(next) <= len(r.blocks) {
			out, ok, err := r.matchClusters(ctx, next)
			if err != nil || ok {
				return out, ok, err
			}
		}

		out, ok, err := r.tryRange(ctx, next, bridges, i+1, bl)
		if err != nil || ok {
			return out, ok, err
		}

		bl.add(keys)
	}
	return nil, false, nil
}

func clusterOf(partition []domain.Cluster, member int) int {
	for i, c := range partition {
		if c.Contains(member) {
			return i
		}
	}
	return -1
}

// merge returns a new partition with clusters ai and bi replaced by union,
// ordered by cluster index.
func merge(partition []domain.Cluster, ai, bi int, union domain.Cluster) []domain.Cluster {
	out := make([]domain.Cluster, 0, len(partition)-1)
	for i, c := range partition {
		if i != ai && i != bi {
			out = append(out, c)
		}
	}
	out = append(out, union)
	slices.SortFunc(out, func(a, b domain.Cluster) int { return cmp.Compare(a.Index, b.Index) })
	return out
}

func clusterKeys(partition []domain.Cluster) []string {
	return lo.Map(partition, func(c domain.Cluster, _ int) string { return c.Key() })
}
