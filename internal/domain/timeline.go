package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is one placed item on a Timeline.
type Entry struct {
	Start Time
	Item  Schedulable
}

func (e Entry) End() Time { return e.Start.Add(e.Item.Length()) }

func (e Entry) Span() Interval { return Interval{Start: e.Start, End: e.End()} }

// Timeline holds non-overlapping Schedulables inside a bounding interval,
// ordered by start time. No two entries share a start time.
//
// The zero value is an empty timeline over an empty interval.
type Timeline struct {
	bounds  Interval
	entries []Entry
}

func NewTimeline(bounds Interval) Timeline {
	return Timeline{bounds: bounds}
}

func (tl *Timeline) Bounds() Interval { return tl.bounds }

func (tl *Timeline) IsEmpty() bool { return len(tl.entries) == 0 }

func (tl *Timeline) Len() int { return len(tl.entries) }

// Entries returns a copy of the schedule in start order.
func (tl *Timeline) Entries() []Entry { return slices.Clone(tl.entries) }

// Last returns the latest entry.
func (tl *Timeline) Last() (Entry, bool) {
	if len(tl.entries) == 0 {
		return Entry{}, false
	}
	return tl.entries[len(tl.entries)-1], true
}

// LastEndTime is the end of the latest entry, or the interval start when empty.
func (tl *Timeline) LastEndTime() Time {
	last, ok := tl.Last()
	if !ok {
		return tl.bounds.Start
	}
	return last.End()
}

func (tl *Timeline) HasEntryStartingAt(t Time) bool {
	_, found := tl.search(t)
	return found
}

// search returns the index of the first entry starting at or after t.
func (tl *Timeline) search(t Time) (int, bool) {
	return slices.BinarySearchFunc(tl.entries, t, func(e Entry, t Time) int {
		switch {
		case e.Start < t:
			return -1
		case e.Start > t:
			return 1
		}
		return 0
	})
}

// ScheduleAt places item at exactly t. It refuses, without mutating, when
// [t, t+len) leaves the bounding interval, another entry starts at t, or the
// span overlaps an existing entry.
func (tl *Timeline) ScheduleAt(t Time, item Schedulable) bool {
	if item == nil || item.Length() < 0 || !tl.bounds.Holds(t, item.Length()) {
		return false
	}
	return tl.insert(t, item)
}

// ScheduleLead places a zero-length item in the reserved slot just before the
// bounding interval. Only an empty timeline accepts a lead.
func (tl *Timeline) ScheduleLead(item Schedulable) bool {
	if item == nil || item.Length() != 0 || len(tl.entries) > 0 {
		return false
	}
	tl.entries = append(tl.entries, Entry{Start: tl.bounds.Start - 1, Item: item})
	return true
}

func (tl *Timeline) insert(t Time, item Schedulable) bool {
	span := Interval{Start: t, End: t.Add(item.Length())}

	idx, found := tl.search(t)
	if found {
		return false
	}
	if idx > 0 && tl.entries[idx-1].Span().Overlaps(span) {
		return false
	}
	if idx < len(tl.entries) && tl.entries[idx].Span().Overlaps(span) {
		return false
	}

	tl.entries = slices.Insert(tl.entries, idx, Entry{Start: t, Item: item})
	return true
}

// Unschedule removes the entry starting at t.
func (tl *Timeline) Unschedule(t Time) (Schedulable, bool) {
	idx, found := tl.search(t)
	if !found {
		return nil, false
	}
	item := tl.entries[idx].Item
	tl.entries = slices.Delete(tl.entries, idx, idx+1)
	return item, true
}

// EarliestLegalAfter finds the first start time no earlier than bound where
// item fits inside an available segment of legal and inside a gap of the
// schedule. The legal segments and the schedule are walked together with a
// single cursor.
//
// When the cursor lands on the start of an existing entry it probes the next
// tick, so a zero-length item never shares a start with a zero-length entry.
func (tl *Timeline) EarliestLegalAfter(bound Time, legal *LegalTimeline, item Schedulable) (Time, bool) {
	if legal == nil || legal.IsEmpty() || item == nil {
		return 0, false
	}

	need := item.Length()
	segs := legal.tl.entries
	cursor := max(bound, segs[0].Start, tl.bounds.Start)

	li, si := -1, -1
	for {
		if !tl.bounds.Holds(cursor, need) {
			return 0, false
		}

		// move to a legal segment that can still hold the item from the cursor
		if li < 0 || !legalAt(segs[li]) || segs[li].End()-cursor < Time(need) {
			li++
			if li >= len(segs) {
				return 0, false
			}
			cursor = max(cursor, segs[li].Start)
			continue
		}

		// skip entries that end at or before the cursor
		if si < 0 || (si < len(tl.entries) && tl.entries[si].End() <= cursor && tl.entries[si].Start < cursor) {
			si++
			if si < len(tl.entries) {
				continue
			}
		}
		if si >= len(tl.entries) {
			return cursor, true
		}

		next := tl.entries[si]
		switch {
		case cursor < next.Start && next.Start-cursor >= Time(need):
			return cursor, true
		case cursor == next.Start:
			cursor++
		default:
			cursor = max(cursor, next.End())
		}
	}
}

func legalAt(e Entry) bool {
	seg, ok := e.Item.(LegalSegment)
	return ok && seg.Available
}

// Clone returns a timeline that shares nothing mutable with tl.
func (tl *Timeline) Clone() Timeline {
	return Timeline{bounds: tl.bounds, entries: slices.Clone(tl.entries)}
}

func (tl *Timeline) String() string {
	var b strings.Builder
	for _, e := range tl.entries {
		fmt.Fprintf(&b, "%d - %d: %s\n", e.Start, e.End(), e.Item.Label())
	}
	return b.String()
}
