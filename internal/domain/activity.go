package domain

// Activity is something to do: how long it takes, where, and when it is
// allowed. Legal is mutated by forward checking, so an Activity copied by
// value shares it; use Clone before handing one to a search branch.
type Activity struct {
	ID       int
	Title    string
	Duration Duration
	Location Location
	Legal    LegalTimeline
}

func (a Activity) Length() Duration { return a.Duration }
func (a Activity) Label() string    { return a.Title }
func (Activity) schedulable()       {}

func (a Activity) Clone() Activity {
	a.Legal = a.Legal.Clone()
	return a
}

// Placed strips the legal-time set so the copy stored on a timeline shares
// nothing with the searching activity.
func (a Activity) Placed() Activity {
	a.Legal = LegalTimeline{}
	return a
}

// Fits reports whether the legal-time set still has a segment long enough
// for the activity.
func (a Activity) Fits() bool { return a.Legal.HasRoomFor(a.Duration) }

// Within returns a copy whose legal-time set is clipped to iv.
func (a Activity) Within(iv Interval) Activity {
	window := NewLegalTimeline(iv)
	window.Allow(iv.Start, iv.End)
	a.Legal = a.Legal.Intersect(&window)
	return a
}
