package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// LegalTimeline is a Timeline holding only LegalSegments: the runs of time
// during which an activity may or may not take place.
type LegalTimeline struct {
	tl Timeline
}

func NewLegalTimeline(bounds Interval) LegalTimeline {
	return LegalTimeline{tl: NewTimeline(bounds)}
}

// LegalWindows builds a legal-time set with one available segment per window.
// The bounding interval runs from the earliest window start to the latest end.
func LegalWindows(windows ...Interval) (LegalTimeline, error) {
	if len(windows) == 0 {
		return LegalTimeline{}, nil
	}

	sorted := slices.Clone(windows)
	slices.SortFunc(sorted, func(a, b Interval) int { return cmp.Compare(a.Start, b.Start) })

	bounds := Interval{Start: sorted[0].Start, End: sorted[0].End}
	for _, w := range sorted {
		if w.Start > w.End {
			return LegalTimeline{}, fmt.Errorf("legal windows: window %s: %w", w, ErrInvalidInterval)
		}
		bounds.End = max(bounds.End, w.End)
	}

	lt := NewLegalTimeline(bounds)
	for _, w := range sorted {
		if !lt.Allow(w.Start, w.End) {
			return LegalTimeline{}, fmt.Errorf("legal windows: window %s overlaps another window", w)
		}
	}
	return lt, nil
}

// Allow adds an available segment covering [start, end).
func (lt *LegalTimeline) Allow(start, end Time) bool {
	if start > end {
		return false
	}
	return lt.AddSegment(start, LegalSegment{Duration: start.Until(end), Available: true})
}

func (lt *LegalTimeline) AddSegment(start Time, seg LegalSegment) bool {
	return lt.tl.ScheduleAt(start, seg)
}

func (lt *LegalTimeline) Bounds() Interval { return lt.tl.Bounds() }

func (lt *LegalTimeline) IsEmpty() bool { return lt.tl.IsEmpty() }

// Segments returns every segment, available or not, in start order.
func (lt *LegalTimeline) Segments() []Entry { return lt.tl.Entries() }

// Available returns the spans of the available segments in start order.
func (lt *LegalTimeline) Available() []Interval {
	out := make([]Interval, 0, len(lt.tl.entries))
	for _, e := range lt.tl.entries {
		if legalAt(e) {
			out = append(out, e.Span())
		}
	}
	return out
}

// Intersect returns the overlaps of every pair of mutually available
// segments. Segments overlapping nothing in the other set are dropped, and
// the result is empty when either side is.
func (lt *LegalTimeline) Intersect(other *LegalTimeline) LegalTimeline {
	if other == nil {
		return LegalTimeline{}
	}
	mine, theirs := lt.Available(), other.Available()
	if len(mine) == 0 || len(theirs) == 0 {
		return LegalTimeline{}
	}

	var overlaps []Interval
	i, j := 0, 0
	for i < len(mine) && j < len(theirs) {
		start := max(mine[i].Start, theirs[j].Start)
		end := min(mine[i].End, theirs[j].End)
		if start < end {
			overlaps = append(overlaps, Interval{Start: start, End: end})
		}
		if mine[i].End <= theirs[j].End {
			i++
		} else {
			j++
		}
	}
	if len(overlaps) == 0 {
		return LegalTimeline{}
	}

	out := NewLegalTimeline(Interval{Start: overlaps[0].Start, End: overlaps[len(overlaps)-1].End})
	for _, o := range overlaps {
		out.Allow(o.Start, o.End)
	}
	return out
}

// RestrictToAfter marks everything before bound unavailable, splitting the
// segment that straddles bound. It reports false if the set holds anything
// other than legal segments.
func (lt *LegalTimeline) RestrictToAfter(bound Time) bool {
	entries := lt.tl.entries
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if e.Start >= bound {
			return true
		}

		seg, ok := e.Item.(LegalSegment)
		if !ok {
			return false
		}

		if e.End() <= bound {
			seg.Available = false
			entries[i].Item = seg
			continue
		}

		prefix := LegalSegment{Duration: e.Start.Until(bound), Available: false}
		suffix := LegalSegment{Duration: bound.Until(e.End()), Available: seg.Available}
		entries[i].Item = prefix
		lt.tl.entries = slices.Insert(entries, i+1, Entry{Start: bound, Item: suffix})
		return true
	}
	return true
}

// HasRoomFor reports whether some available segment is at least d long.
func (lt *LegalTimeline) HasRoomFor(d Duration) bool {
	for _, e := range lt.tl.entries {
		if legalAt(e) && e.Item.Length() >= d {
			return true
		}
	}
	return false
}

func (lt *LegalTimeline) Clone() LegalTimeline {
	return LegalTimeline{tl: lt.tl.Clone()}
}

func (lt *LegalTimeline) String() string {
	parts := make([]string, 0, len(lt.tl.entries))
	for _, e := range lt.tl.entries {
		if legalAt(e) {
			parts = append(parts, fmt.Sprintf("%d - %d", e.Start, e.End()))
		}
	}
	return strings.Join(parts, ", ")
}
