package domain

// TravelCost returns the transit between two distinct locations, or false
// when no route exists. It must be pure and never return a negative duration.
type TravelCost func(from, to Location) (Transit, bool)

// Leg resolves the transit from one location to another. Identical
// locations, and legs touching an activity without a location, are free.
func (f TravelCost) Leg(from, to Location) (Transit, bool) {
	if from == to || from.IsZero() || to.IsZero() {
		return Transit{From: from, To: to}, true
	}
	if f == nil {
		return Transit{}, false
	}

	t, ok := f(from, to)
	if !ok || t.Duration < 0 {
		return Transit{}, false
	}
	t.From, t.To = from, to
	return t, true
}
