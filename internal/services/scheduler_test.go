package services

import (
	"context"
	"itinerary-planner-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleBlockCityDay(t *testing.T) {
	acts, g := city(t)
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 1, End: 30}, "home", "home")

	res, err := scheduleBlock(context.Background(), blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, res.ok)

	want := []placed{
		{0, 0, "At start location"},
		{1, 4, "travel home -> park"},
		{4, 5, "park"},
		{5, 7, "travel park -> concert"},
		{7, 10, "concert"},
		{10, 13, "travel concert -> museum"},
		{13, 15, "museum"},
		{15, 19, "travel museum -> home"},
		{19, 19, "At end location"},
	}
	assert.Equal(t, want, layout(res.block))
	assert.Positive(t, res.expanded)
	assertSound(t, res.block, acts)

	assert.True(t, blk.Timeline.IsEmpty(), "input block must not be touched")
	assert.Equal(t, []domain.Interval{{Start: 1, End: 21}}, acts[0].Legal.Available(), "input legal time must not be touched")
}

func TestSchedulingStateRootSuccessors(t *testing.T) {
	acts, g := city(t)
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 1, End: 30}, "home", "home")

	root, ok, err := newSchedulingState(blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, root.IsGoal())

	children, err := root.Successors()
	require.NoError(t, err)
	require.Len(t, children, 3)

	ends := map[string]domain.Time{}
	for _, c := range children {
		last, ok := c.block.Timeline.Last()
		require.True(t, ok)
		ends[last.Item.Label()] = c.block.LastEndTime()
		assert.Len(t, c.remaining, 2)
		assert.False(t, c.IsGoal())
	}
	assert.Equal(t, map[string]domain.Time{"museum": 7, "concert": 9, "park": 5}, ends)

	assert.Len(t, root.remaining, 3, "successors must not mutate the parent")
	assert.Equal(t, 1, root.block.Timeline.Len())
}

func TestSchedulingForwardCheckPrunes(t *testing.T) {
	acts, g := coast(t)
	blk := domain.NewTimeBlock(2, domain.Interval{Start: 8, End: 30}, "home", "home")

	root, ok, err := newSchedulingState(blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, ok)

	children, err := root.Successors()
	require.NoError(t, err)
	require.Len(t, children, 2, "gallery first leaves no room for the temple")

	beachFirst, templeFirst := children[0], children[1]
	require.Equal(t, []placed{
		{7, 7, "At start location"},
		{8, 11, "travel home -> beach"},
		{11, 13, "beach"},
	}, layout(beachFirst.block))
	require.Equal(t, []placed{
		{7, 7, "At start location"},
		{8, 9, "travel home -> temple"},
		{9, 12, "temple"},
	}, layout(templeFirst.block))

	// the beach pushes the earliest start past the temple's last window
	next, err := beachFirst.Successors()
	require.NoError(t, err)
	assert.Empty(t, next)

	next, err = templeFirst.Successors()
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, domain.Time(16), next[0].block.LastEndTime())
	assert.Equal(t, domain.Time(21), next[1].block.LastEndTime())
}

func TestScheduleBlockCoastDay(t *testing.T) {
	acts, g := coast(t)
	blk := domain.NewTimeBlock(2, domain.Interval{Start: 8, End: 30}, "home", "home")

	res, err := scheduleBlock(context.Background(), blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, res.ok)

	want := []placed{
		{7, 7, "At start location"},
		{8, 9, "travel home -> temple"},
		{9, 12, "temple"},
		{12, 17, "travel temple -> gallery"},
		{17, 21, "gallery"},
		{21, 24, "travel gallery -> beach"},
		{24, 26, "beach"},
		{26, 29, "travel beach -> home"},
		{29, 29, "At end location"},
	}
	assert.Equal(t, want, layout(res.block))
	assertSound(t, res.block, acts)
}

func TestScheduleBlockWaitsForLateWindow(t *testing.T) {
	acts := []domain.Activity{
		activity(t, 7, "skiing", 5, "slopes", domain.Interval{Start: 1, End: 7}, domain.Interval{Start: 15, End: 23}),
		activity(t, 8, "hiking", 4, "trail", domain.Interval{Start: 3, End: 30}),
	}
	g := graph{
		{"slopes", "trail"}: 3,
		{"home", "slopes"}:  2,
		{"home", "trail"}:   5,
	}
	blk := domain.NewTimeBlock(3, domain.Interval{Start: 1, End: 25}, "home", "home")

	root, ok, err := newSchedulingState(blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, ok)

	children, err := root.Successors()
	require.NoError(t, err)
	require.Len(t, children, 2)
	// travel departs as late as it can and arrives as the activity starts
	assert.Equal(t, []placed{
		{0, 0, "At start location"},
		{13, 15, "travel home -> slopes"},
		{15, 20, "skiing"},
	}, layout(children[0].block))
	assert.Equal(t, []placed{
		{0, 0, "At start location"},
		{1, 6, "travel home -> trail"},
		{6, 10, "hiking"},
	}, layout(children[1].block))

	res, err := scheduleBlock(context.Background(), blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, res.ok)
	assert.Equal(t, []placed{
		{0, 0, "At start location"},
		{1, 6, "travel home -> trail"},
		{6, 10, "hiking"},
		{12, 15, "travel trail -> slopes"},
		{15, 20, "skiing"},
		{20, 22, "travel slopes -> home"},
		{22, 22, "At end location"},
	}, layout(res.block))
	assertSound(t, res.block, acts)
}

func TestScheduleBlockExactWindow(t *testing.T) {
	acts := []domain.Activity{activity(t, 1, "tasting", 3, "home", domain.Interval{Start: 5, End: 8})}
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 0, End: 20}, "home", "home")

	res, err := scheduleBlock(context.Background(), blk, acts, nil)
	require.NoError(t, err)
	require.True(t, res.ok)
	assert.Equal(t, []placed{
		{-1, -1, "At start location"},
		{5, 8, "tasting"},
		{8, 8, "At end location"},
	}, layout(res.block))
}

func TestScheduleBlockActivityWithoutLocation(t *testing.T) {
	acts := []domain.Activity{
		activity(t, 1, "call home", 1, "", domain.Interval{Start: 0, End: 20}),
		activity(t, 2, "lunch", 2, "diner", domain.Interval{Start: 0, End: 20}),
	}
	g := graph{{"hotel", "diner"}: 2}
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 0, End: 20}, "hotel", "hotel")

	res, err := scheduleBlock(context.Background(), blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, res.ok)
	assert.Equal(t, []placed{
		{-1, -1, "At start location"},
		{0, 1, "call home"},
		{1, 3, "travel hotel -> diner"},
		{3, 5, "lunch"},
		{5, 7, "travel diner -> hotel"},
		{7, 7, "At end location"},
	}, layout(res.block))
}

func TestScheduleBlockFailures(t *testing.T) {
	g := graph{{"home", "far"}: 8}
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 0, End: 10}, "home", "home")

	tests := []struct {
		name string
		acts []domain.Activity
	}{
		{
			name: "no room inside the block",
			acts: []domain.Activity{activity(t, 1, "late", 2, "home", domain.Interval{Start: 20, End: 30})},
		},
		{
			name: "no way back to the end location",
			acts: []domain.Activity{activity(t, 1, "far away", 1, "far", domain.Interval{Start: 0, End: 10})},
		},
		{
			name: "no edge to the activity",
			acts: []domain.Activity{activity(t, 1, "island", 1, "island", domain.Interval{Start: 0, End: 10})},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := scheduleBlock(context.Background(), blk, tc.acts, g.cost)
			require.NoError(t, err)
			assert.False(t, res.ok)
			assert.True(t, res.block.Timeline.IsEmpty())
		})
	}
}

func TestSchedulingPriority(t *testing.T) {
	acts, g := city(t)
	blk := domain.NewTimeBlock(1, domain.Interval{Start: 1, End: 30}, "home", "home")

	root, ok, err := newSchedulingState(blk, acts, g.cost)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(0+6), root.priority())

	children, err := root.Successors()
	require.NoError(t, err)
	got := make([]int64, len(children))
	for i, c := range children {
		got[i] = c.priority()
	}
	assert.Equal(t, []int64{7 + 4, 9 + 3, 5 + 5}, got)
}
