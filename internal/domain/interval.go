package domain

import (
	"errors"
	"fmt"
)

// Time is a point on the planning clock, counted in integer time units.
type Time int64

// Duration is a non-negative span of time units.
type Duration int64

var ErrInvalidInterval = errors.New("interval start is after end")

// Add returns t moved forward by d.
func (t Time) Add(d Duration) Time { return t + Time(d) }

// Until returns the span from t to u, or zero when u is not after t.
func (t Time) Until(u Time) Duration {
	if u <= t {
		return 0
	}
	return Duration(u - t)
}

// Add saturates at zero instead of going negative.
func (d Duration) Add(o Duration) Duration {
	if s := d + o; s > 0 {
		return s
	}
	return 0
}

// Sub saturates at zero instead of going negative.
func (d Duration) Sub(o Duration) Duration {
	if o >= d {
		return 0
	}
	return d - o
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Time
	End   Time
}

func NewInterval(start, end Time) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("new interval [%d, %d): %w", start, end, ErrInvalidInterval)
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Len() Duration { return i.Start.Until(i.End) }

func (i Interval) IsEmpty() bool { return i.End <= i.Start }

// Holds reports whether [start, start+d) fits inside the interval.
// A zero-length span may sit exactly on End.
func (i Interval) Holds(start Time, d Duration) bool {
	return start >= i.Start && start.Add(d) <= i.End
}

// Overlaps follows half-open semantics: a zero-length range overlaps
// only ranges that strictly contain its point.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) String() string { return fmt.Sprintf("[%d, %d)", i.Start, i.End) }
