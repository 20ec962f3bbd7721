package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/metrics"
	"itinerary-planner-service/internal/platform/obs"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

type PlannerConfig struct {
	// Timeout bounds a single planner call. Zero disables the budget.
	Timeout time.Duration
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{Timeout: 10 * time.Second}
}

// Planner runs the clustering, matching and scheduling searches. The travel
// cost function is its only collaborator and is never called concurrently.
//
// Every entry point returns ok == false with a nil error when the search
// space holds no answer. Errors are reserved for infeasible input, an
// exhausted budget and internal invariant violations.
type Planner struct {
	travel domain.TravelCost
	cfg    PlannerConfig

	onMatch func(keys []string)
}

func NewPlanner(travel domain.TravelCost, cfg PlannerConfig) *Planner {
	return &Planner{travel: travel, cfg: cfg}
}

type searchStats struct {
	scheduleExpanded int
	matchExpanded    int
	memoHits         int
	blacklistHits    int
}

// planRun is the state of one planner call. The scheduling memo lives as
// long as the run because a block's schedule depends only on the member set.
type planRun struct {
	travel  domain.TravelCost
	acts    []domain.Activity
	blocks  []domain.TimeBlock
	memo    map[memoKey]scheduleResult
	stats   searchStats
	onMatch func(keys []string)
	log     zerolog.Logger
}

func (p *Planner) newRun(ctx context.Context, acts []domain.Activity, blocks []domain.TimeBlock) *planRun {
	return &planRun{
		travel:  p.travel,
		acts:    slices.Clone(acts),
		blocks:  slices.Clone(blocks),
		memo:    make(map[memoKey]scheduleResult),
		onMatch: p.onMatch,
		log:     zerolog.Ctx(ctx).With().Str("component", "planner").Logger(),
	}
}

func (p *Planner) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.Timeout)
}

// ClusterAndSchedule distributes activities over blocks and orders each
// block. The result holds every input block in input order; blocks that
// received no activities come back unchanged.
func (p *Planner) ClusterAndSchedule(ctx context.Context, acts []domain.Activity, blocks []domain.TimeBlock) (out []domain.TimeBlock, ok bool, err error) {
	defer obs.Time(ctx, "planner.cluster_and_schedule")(&err)

	ctx, cancel := p.budget(ctx)
	defer cancel()

	start := time.Now()
	run := p.newRun(ctx, acts, blocks)
	out, ok, err = run.clusterAndSchedule(ctx)
	err = budgetErr(err)
	p.observe(run, "cluster_and_schedule", ok, err, time.Since(start))
	if err != nil {
		return nil, false, fmt.Errorf("cluster and schedule: %w", err)
	}
	return out, ok, nil
}

// MatchClusters assigns a prebuilt partition to blocks. Cluster members
// index acts; Feasible must list block positions as NewCluster computes them.
func (p *Planner) MatchClusters(ctx context.Context, clusters []domain.Cluster, acts []domain.Activity, blocks []domain.TimeBlock) (out []domain.TimeBlock, ok bool, err error) {
	defer obs.Time(ctx, "planner.match_clusters")(&err)

	for _, c := range clusters {
		for _, m := range c.Members {
			if m < 0 || m >= len(acts) {
				return nil, false, fmt.Errorf("match clusters: cluster %d: member %d out of range", c.Index, m)
			}
		}
	}

	ctx, cancel := p.budget(ctx)
	defer cancel()

	start := time.Now()
	run := p.newRun(ctx, acts, blocks)
	out, ok, err = run.matchClusters(ctx, clusters)
	err = budgetErr(err)
	p.observe(run, "match_clusters", ok, err, time.Since(start))
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

// ScheduleBlock orders acts inside one block. block itself is not modified.
func (p *Planner) ScheduleBlock(ctx context.Context, block domain.TimeBlock, acts []domain.Activity) (out domain.TimeBlock, ok bool, err error) {
	defer obs.Time(ctx, "planner.schedule_block")(&err)

	ctx, cancel := p.budget(ctx)
	defer cancel()

	start := time.Now()
	run := p.newRun(ctx, acts, []domain.TimeBlock{block})
	res, err := scheduleBlock(ctx, block, run.acts, p.travel)
	run.stats.scheduleExpanded = res.expanded
	err = budgetErr(err)
	p.observe(run, "schedule_block", res.ok, err, time.Since(start))
	if err != nil {
		return domain.TimeBlock{}, false, err
	}
	return res.block, res.ok, nil
}

func outcome(ok bool, err error) string {
	switch {
	case errors.Is(err, ErrSearchBudgetExhausted):
		return "budget_exhausted"
	case errors.Is(err, ErrActivityInfeasible):
		return "infeasible"
	case err != nil:
		return "error"
	case ok:
		return "ok"
	}
	return "no_solution"
}

func (p *Planner) observe(run *planRun, op string, ok bool, err error, dur time.Duration) {
	result := outcome(ok, err)
	metrics.PlansTotal.WithLabelValues(op, result).Inc()
	metrics.PlanDuration.WithLabelValues(op).Observe(dur.Seconds())
	metrics.SearchStatesExpanded.WithLabelValues("schedule").Add(float64(run.stats.scheduleExpanded))
	metrics.SearchStatesExpanded.WithLabelValues("match").Add(float64(run.stats.matchExpanded))

	run.log.Debug().
		Str("op", op).
		Str("outcome", result).
		Int("activities", len(run.acts)).
		Int("blocks", len(run.blocks)).
		Int("schedule_expanded", run.stats.scheduleExpanded).
		Int("match_expanded", run.stats.matchExpanded).
		Int("memo_hits", run.stats.memoHits).
		Int("blacklist_hits", run.stats.blacklistHits).
		Dur("took", dur).
		Msg("search finished")
}
