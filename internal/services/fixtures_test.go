package services

import (
	"itinerary-planner-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

// graph is an undirected travel table for tests.
type graph map[[2]domain.Location]domain.Duration

func (g graph) cost(from, to domain.Location) (domain.Transit, bool) {
	if d, ok := g[[2]domain.Location{from, to}]; ok {
		return domain.Transit{Duration: d}, true
	}
	if d, ok := g[[2]domain.Location{to, from}]; ok {
		return domain.Transit{Duration: d}, true
	}
	return domain.Transit{}, false
}

func legal(t *testing.T, windows ...domain.Interval) domain.LegalTimeline {
	t.Helper()
	lt, err := domain.LegalWindows(windows...)
	require.NoError(t, err)
	return lt
}

func activity(t *testing.T, id int, title string, d domain.Duration, loc domain.Location, windows ...domain.Interval) domain.Activity {
	t.Helper()
	return domain.Activity{ID: id, Title: title, Duration: d, Location: loc, Legal: legal(t, windows...)}
}

type placed struct {
	start domain.Time
	end   domain.Time
	label string
}

func layout(blk domain.TimeBlock) []placed {
	entries := blk.Timeline.Entries()
	out := make([]placed, len(entries))
	for i, e := range entries {
		out[i] = placed{start: e.Start, end: e.End(), label: e.Item.Label()}
	}
	return out
}

// city is the three-activity day used by the single-block tests: every
// activity may happen in [1, 21) and travel forms a triangle around home.
func city(t *testing.T) ([]domain.Activity, graph) {
	t.Helper()
	acts := []domain.Activity{
		activity(t, 1, "museum", 2, "museum", domain.Interval{Start: 1, End: 21}),
		activity(t, 2, "concert", 3, "concert", domain.Interval{Start: 1, End: 21}),
		activity(t, 3, "park", 1, "park", domain.Interval{Start: 1, End: 21}),
	}
	g := graph{
		{"museum", "concert"}: 3,
		{"park", "museum"}:    7,
		{"park", "concert"}:   2,
		{"home", "concert"}:   5,
		{"home", "museum"}:    4,
		{"home", "park"}:      3,
	}
	return acts, g
}

// coast is a day where forward checking matters: the temple is only open in
// two short windows and the gallery opens late.
func coast(t *testing.T) ([]domain.Activity, graph) {
	t.Helper()
	acts := []domain.Activity{
		activity(t, 4, "beach", 2, "beach", domain.Interval{Start: 6, End: 26}),
		activity(t, 5, "gallery", 4, "gallery", domain.Interval{Start: 13, End: 21}),
		activity(t, 6, "temple", 3, "temple", domain.Interval{Start: 9, End: 12}, domain.Interval{Start: 13, End: 16}),
	}
	g := graph{
		{"beach", "temple"}:   2,
		{"gallery", "temple"}: 5,
		{"beach", "gallery"}:  3,
		{"home", "temple"}:    1,
		{"home", "gallery"}:   4,
		{"home", "beach"}:     3,
	}
	return acts, g
}

// assertSound checks that no two entries overlap and that every activity
// sits inside one of the available windows it was given.
func assertSound(t *testing.T, blk domain.TimeBlock, acts []domain.Activity) {
	t.Helper()
	entries := blk.Timeline.Entries()
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			require.False(t, entries[i].Span().Overlaps(entries[j].Span()),
				"%s overlaps %s", entries[i].Span(), entries[j].Span())
		}
	}

	byTitle := make(map[string]domain.Activity, len(acts))
	for _, a := range acts {
		byTitle[a.Title] = a
	}
	for _, e := range entries {
		a, ok := e.Item.(domain.Activity)
		if !ok {
			continue
		}
		orig, ok := byTitle[a.Title]
		require.True(t, ok, "unexpected activity %q", a.Title)

		inside := false
		for _, w := range orig.Legal.Available() {
			if w.Holds(e.Start, a.Duration) {
				inside = true
				break
			}
		}
		require.True(t, inside, "%s placed at %d outside %s", a.Title, e.Start, orig.Legal.String())
	}
}
