// Package search is a small tree search engine. The same loop runs
// depth-first assignment search and A* scheduling; only the frontier differs.
package search

import (
	"context"
	"fmt"
)

// State is one node of a search tree. Successors must not mutate the
// receiver and must return freshly built children. IsGoal must be pure.
type State[S any] interface {
	Successors() ([]S, error)
	IsGoal() bool
}

type Engine[S State[S]] struct {
	frontier Frontier[S]
	expanded int
}

// New seeds frontier with root.
func New[S State[S]](frontier Frontier[S], root S) *Engine[S] {
	frontier.Push(root)
	return &Engine[S]{frontier: frontier}
}

// NextGoal pops states until it finds a goal, expanding every non-goal on
// the way. Calling it again resumes from where the previous goal was found.
// It reports false once the frontier is empty.
func (e *Engine[S]) NextGoal(ctx context.Context) (S, bool, error) {
	var zero S
	for {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		st, ok := e.frontier.Pop()
		if !ok {
			return zero, false, nil
		}
		if st.IsGoal() {
			return st, true, nil
		}

		children, err := st.Successors()
		if err != nil {
			return zero, false, fmt.Errorf("expand state: %w", err)
		}
		e.expanded++
		e.frontier.Push(children...)
	}
}

// Expanded is the number of states whose successors have been generated.
func (e *Engine[S]) Expanded() int { return e.expanded }
