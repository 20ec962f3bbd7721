package domain

import "time"

// Itinerary is a planning result: every input block in input order, the
// assigned ones filled with markers, travel legs and activities.
type Itinerary struct {
	ID        string
	PlannedAt time.Time
	Blocks    []TimeBlock
}
