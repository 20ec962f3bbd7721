package search

import "container/heap"

// Frontier holds the states waiting to be expanded. The pop order is the
// only thing that distinguishes one search strategy from another.
type Frontier[S any] interface {
	Push(states ...S)
	Pop() (S, bool)
	Len() int
}

// Stack pops depth-first. States pushed together come back out in the order
// they were given, so siblings are visited left to right.
type Stack[S any] struct {
	items []S
}

func NewStack[S any]() *Stack[S] { return &Stack[S]{} }

func (s *Stack[S]) Push(states ...S) {
	for i := len(states) - 1; i >= 0; i-- {
		s.items = append(s.items, states[i])
	}
}

func (s *Stack[S]) Pop() (S, bool) {
	var zero S
	if len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	st := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return st, true
}

func (s *Stack[S]) Len() int { return len(s.items) }

// Queue pops breadth-first.
type Queue[S any] struct {
	items []S
	head  int
}

func NewQueue[S any]() *Queue[S] { return &Queue[S]{} }

func (q *Queue[S]) Push(states ...S) { q.items = append(q.items, states...) }

func (q *Queue[S]) Pop() (S, bool) {
	var zero S
	if q.head >= len(q.items) {
		return zero, false
	}
	st := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items, q.head = q.items[:0], 0
	}
	return st, true
}

func (q *Queue[S]) Len() int { return len(q.items) - q.head }

// PriorityQueue pops the state with the lowest priority first. Equal
// priorities come out in push order, which keeps runs deterministic.
type PriorityQueue[S any] struct {
	priority func(S) int64
	h        pqHeap[S]
	seq      uint64
}

func NewPriorityQueue[S any](priority func(S) int64) *PriorityQueue[S] {
	return &PriorityQueue[S]{priority: priority}
}

func (pq *PriorityQueue[S]) Push(states ...S) {
	for _, st := range states {
		heap.Push(&pq.h, pqItem[S]{state: st, prio: pq.priority(st), seq: pq.seq})
		pq.seq++
	}
}

func (pq *PriorityQueue[S]) Pop() (S, bool) {
	if pq.h.Len() == 0 {
		var zero S
		return zero, false
	}
	return heap.Pop(&pq.h).(pqItem[S]).state, true
}

func (pq *PriorityQueue[S]) Len() int { return pq.h.Len() }

type pqItem[S any] struct {
	state S
	prio  int64
	seq   uint64
}

// pqHeap implements heap.Interface ordered by (prio, seq).
type pqHeap[S any] []pqItem[S]

func (h pqHeap[S]) Len() int { return len(h) }

func (h pqHeap[S]) Less(i, j int) bool {
	if h[i].prio != h[j].prio {
		return h[i].prio < h[j].prio
	}
	return h[i].seq < h[j].seq
}

func (h pqHeap[S]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pqHeap[S]) Push(x any) { *h = append(*h, x.(pqItem[S])) }

func (h *pqHeap[S]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = pqItem[S]{}
	*h = old[:n-1]
	return it
}
