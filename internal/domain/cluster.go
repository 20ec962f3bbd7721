package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Bridge is a candidate link between two activities, scored by the travel
// time between them. A and B index the activity slice the bridge was built from.
type Bridge struct {
	Transit Transit
	A       int
	B       int
	Used    bool
}

func (b Bridge) Cost() Duration { return b.Transit.Duration }

// Cluster is an activity spanning tree: activities joined by bridges, with
// the blocks (positions in the block slice) every member could still occupy.
//
// Members are sorted indexes into the activity slice. Feasible only
// shrinks as clusters are joined.
type Cluster struct {
	Index    int
	Members  []int
	Bridges  []Bridge
	Feasible []int
}

// NewCluster builds the singleton cluster for acts[member].
func NewCluster(index, member int, acts []Activity, blocks []TimeBlock) Cluster {
	c := Cluster{Index: index, Members: []int{member}}

	candidates := make([]int, len(blocks))
	for i := range blocks {
		candidates[i] = i
	}
	c.Feasible = c.feasibleAmong(acts, blocks, candidates)
	return c
}

// Join returns the union of c and o connected by b. Neither input is modified.
func (c Cluster) Join(o Cluster, b Bridge, acts []Activity, blocks []TimeBlock) Cluster {
	members := append(slices.Clone(c.Members), o.Members...)
	slices.Sort(members)

	bridges := make([]Bridge, 0, len(c.Bridges)+len(o.Bridges)+1)
	bridges = append(bridges, c.Bridges...)
	bridges = append(bridges, o.Bridges...)
	b.Used = true
	bridges = append(bridges, b)

	union := Cluster{
		Index:   min(c.Index, o.Index),
		Members: slices.Compact(members),
		Bridges: bridges,
	}
	union.Feasible = union.feasibleAmong(acts, blocks, intersectSorted(c.Feasible, o.Feasible))
	return union
}

func (c Cluster) Contains(member int) bool {
	_, ok := slices.BinarySearch(c.Members, member)
	return ok
}

// Key identifies the member set, independent of bridges and index.
func (c Cluster) Key() string {
	parts := make([]string, len(c.Members))
	for i, m := range c.Members {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}

func (c Cluster) ActivityDuration(acts []Activity) Duration {
	var sum Duration
	for _, m := range c.Members {
		sum = sum.Add(acts[m].Duration)
	}
	return sum
}

// TotalDuration adds the bridges' travel to the members' own durations.
func (c Cluster) TotalDuration(acts []Activity) Duration {
	sum := c.ActivityDuration(acts)
	for _, b := range c.Bridges {
		sum = sum.Add(b.Cost())
	}
	return sum
}

// FitsBlock reports whether every member has legal room inside blk on its
// own and blk is long enough for the cluster's combined duration.
func (c Cluster) FitsBlock(acts []Activity, blk *TimeBlock) bool {
	if blk.Interval.Len() < c.TotalDuration(acts) {
		return false
	}
	for _, m := range c.Members {
		if !acts[m].Within(blk.Interval).Fits() {
			return false
		}
	}
	return true
}

func (c Cluster) feasibleAmong(acts []Activity, blocks []TimeBlock, candidates []int) []int {
	out := make([]int, 0, len(candidates))
	for _, pos := range candidates {
		if c.FitsBlock(acts, &blocks[pos]) {
			out = append(out, pos)
		}
	}
	return out
}

func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
