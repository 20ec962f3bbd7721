package domain

// Schedulable is anything a Timeline can hold. The set of implementations
// is closed: Activity, Transit, LegalSegment and Marker.
type Schedulable interface {
	Length() Duration
	Label() string
	schedulable()
}

// Transit is a travel leg between two locations.
type Transit struct {
	From     Location
	To       Location
	Duration Duration
}

func (t Transit) Length() Duration { return t.Duration }
func (t Transit) Label() string    { return "travel " + string(t.From) + " -> " + string(t.To) }
func (Transit) schedulable()       {}

// LegalSegment is one run of a legal-time set, either permitted or not.
type LegalSegment struct {
	Duration  Duration
	Available bool
}

func (s LegalSegment) Length() Duration { return s.Duration }

func (s LegalSegment) Label() string {
	if s.Available {
		return "legal"
	}
	return "unavailable"
}

func (LegalSegment) schedulable() {}

type MarkerKind int

const (
	MarkerStart MarkerKind = iota + 1
	MarkerEnd
)

// Marker is a zero-length "at location" sentinel bracketing a block's schedule.
type Marker struct {
	Kind     MarkerKind
	Location Location
}

func (Marker) Length() Duration { return 0 }

func (m Marker) Label() string {
	if m.Kind == MarkerEnd {
		return "At end location"
	}
	return "At start location"
}

func (Marker) schedulable() {}
