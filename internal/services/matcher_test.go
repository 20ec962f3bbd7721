package services

import (
	"context"
	"itinerary-planner-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resort has a short morning block and a long afternoon block. Skiing fits
// the morning on paper but not once the trip to the slopes is counted.
func resort(t *testing.T) ([]domain.Activity, []domain.TimeBlock, graph) {
	t.Helper()
	acts := []domain.Activity{
		activity(t, 1, "skiing", 3, "slopes", domain.Interval{Start: 1, End: 40}),
		activity(t, 2, "tv", 1, "hotel", domain.Interval{Start: 9, End: 20}),
	}
	blocks := []domain.TimeBlock{
		domain.NewTimeBlock(1, domain.Interval{Start: 1, End: 10}, "hotel", "hotel"),
		domain.NewTimeBlock(2, domain.Interval{Start: 15, End: 40}, "hotel", "hotel"),
	}
	return acts, blocks, graph{{"hotel", "slopes"}: 5}
}

func TestMatchingStateSuccessors(t *testing.T) {
	acts, blocks, _ := resort(t)
	clusters := []domain.Cluster{
		domain.NewCluster(0, 0, acts, blocks),
		domain.NewCluster(1, 1, acts, blocks),
	}

	root := newMatchingState(clusters, len(blocks))
	assert.False(t, root.IsGoal())
	assert.Equal(t, []int{unassigned, unassigned}, root.assigned)

	children, err := root.Successors()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, []int{0, unassigned}, children[0].assigned)
	assert.Equal(t, []int{unassigned, 0}, children[1].assigned)
	assert.Equal(t, []int{1}, children[0].remaining)

	leaves, err := children[0].Successors()
	require.NoError(t, err)
	require.Len(t, leaves, 1, "a claimed block is not offered again")
	assert.Equal(t, []int{0, 1}, leaves[0].assigned)
	assert.True(t, leaves[0].IsGoal())

	assert.Equal(t, []int{0, 1}, root.remaining, "successors must not mutate the parent")
	assert.Equal(t, []int{unassigned, unassigned}, root.assigned)
}

func TestMatchClustersResumesAfterFailedSchedule(t *testing.T) {
	acts, blocks, g := resort(t)
	clusters := []domain.Cluster{
		domain.NewCluster(0, 0, acts, blocks),
		domain.NewCluster(1, 1, acts, blocks),
	}
	require.Equal(t, []int{0, 1}, clusters[0].Feasible)

	p := NewPlanner(g.cost, DefaultPlannerConfig())
	out, ok, err := p.MatchClusters(context.Background(), clusters, acts, blocks)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)

	assert.Equal(t, 1, out[0].Index)
	assert.Equal(t, []placed{
		{0, 0, "At start location"},
		{9, 10, "tv"},
		{10, 10, "At end location"},
	}, layout(out[0]))

	assert.Equal(t, 2, out[1].Index)
	assert.Equal(t, []placed{
		{14, 14, "At start location"},
		{15, 20, "travel hotel -> slopes"},
		{20, 23, "skiing"},
		{23, 28, "travel slopes -> hotel"},
		{28, 28, "At end location"},
	}, layout(out[1]))

	for _, b := range blocks {
		assert.True(t, b.Timeline.IsEmpty())
	}
}

func TestMatchClustersLeavesSpareBlocksUntouched(t *testing.T) {
	acts := []domain.Activity{activity(t, 1, "dinner", 2, "hotel", domain.Interval{Start: 20, End: 30})}
	blocks := []domain.TimeBlock{
		domain.NewTimeBlock(1, domain.Interval{Start: 0, End: 10}, "hotel", "hotel"),
		domain.NewTimeBlock(2, domain.Interval{Start: 15, End: 40}, "hotel", "hotel"),
		domain.NewTimeBlock(3, domain.Interval{Start: 50, End: 60}, "hotel", "hotel"),
	}
	clusters := []domain.Cluster{domain.NewCluster(0, 0, acts, blocks)}
	require.Equal(t, []int{1}, clusters[0].Feasible)

	p := NewPlanner(nil, DefaultPlannerConfig())
	out, ok, err := p.MatchClusters(context.Background(), clusters, acts, blocks)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 3)

	assert.True(t, out[0].Timeline.IsEmpty())
	assert.True(t, out[2].Timeline.IsEmpty())
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Index, out[1].Index, out[2].Index})
	require.Len(t, out[1].Activities(), 1)
	assert.Equal(t, "dinner", out[1].Activities()[0].Title)
}

func TestMatchClustersMoreClustersThanBlocks(t *testing.T) {
	acts, blocks, g := resort(t)
	acts = append(acts, activity(t, 3, "spa", 1, "hotel", domain.Interval{Start: 1, End: 40}))
	clusters := []domain.Cluster{
		domain.NewCluster(0, 0, acts, blocks),
		domain.NewCluster(1, 1, acts, blocks),
		domain.NewCluster(2, 2, acts, blocks),
	}

	p := NewPlanner(g.cost, DefaultPlannerConfig())
	_, ok, err := p.MatchClusters(context.Background(), clusters, acts, blocks)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchClustersRejectsUnknownMembers(t *testing.T) {
	acts, blocks, g := resort(t)
	clusters := []domain.Cluster{{Index: 0, Members: []int{7}, Feasible: []int{0}}}

	p := NewPlanner(g.cost, DefaultPlannerConfig())
	_, ok, err := p.MatchClusters(context.Background(), clusters, acts, blocks)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestScheduleMemoReusesResults(t *testing.T) {
	acts, blocks, g := resort(t)
	p := NewPlanner(g.cost, DefaultPlannerConfig())
	run := p.newRun(context.Background(), acts, blocks)
	ski := domain.NewCluster(0, 0, acts, blocks)

	first, ok, err := run.schedule(context.Background(), 1, ski)
	require.NoError(t, err)
	require.True(t, ok)
	expanded := run.stats.scheduleExpanded

	second, ok, err := run.schedule(context.Background(), 1, ski)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, layout(first), layout(second))
	assert.Equal(t, 1, run.stats.memoHits)
	assert.Equal(t, expanded, run.stats.scheduleExpanded)

	require.True(t, second.Timeline.ScheduleAt(35, domain.Marker{Kind: domain.MarkerEnd}))
	third, _, err := run.schedule(context.Background(), 1, ski)
	require.NoError(t, err)
	assert.Equal(t, layout(first), layout(third), "cached blocks are handed out as copies")
}
