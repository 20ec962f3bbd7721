package services

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrActivityInfeasible means an activity's own legal time cannot hold
	// its duration, so no search was attempted.
	ErrActivityInfeasible = errors.New("activity cannot fit its legal time")

	// ErrSearchBudgetExhausted means the planning deadline passed before the
	// search finished. It says nothing about whether an itinerary exists.
	ErrSearchBudgetExhausted = errors.New("search budget exhausted")

	// ErrInvariant marks an internal inconsistency. It is a bug, never an
	// expected planning outcome.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrNoItinerary means the search space was exhausted without a result.
	ErrNoItinerary = errors.New("no itinerary satisfies the constraints")
)

type ActivityError struct {
	ActivityID int
	Title      string
	Err        error
}

func (e *ActivityError) Error() string {
	return fmt.Sprintf("activity %d (%q): %v", e.ActivityID, e.Title, e.Err)
}

func (e *ActivityError) Unwrap() error { return e.Err }

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}

// budgetErr maps a deadline hit inside the search to ErrSearchBudgetExhausted
// and passes every other error through.
func budgetErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrSearchBudgetExhausted) {
		return fmt.Errorf("%w: %w", ErrSearchBudgetExhausted, err)
	}
	return err
}
