package snake

import "github.com/vovakirdan/neon-snake/internal/core"

// DirectionQueue buffers turn requests between ticks.
//
// Admission and draining both compare against the direction the snake is
// committed to at that moment, not against the last queued request. Two quick
// opposite taps before a tick can therefore both be admitted, and the second
// one is discarded at drain time if the first has already been applied.
type DirectionQueue struct {
	pending []core.Direction
}

// NewDirectionQueue creates an empty queue.
func NewDirectionQueue() *DirectionQueue {
	return &DirectionQueue{}
}

// Enqueue appends requested unless it reverses current.
// Returns false when the request was dropped.
func (q *DirectionQueue) Enqueue(requested, current core.Direction) bool {
	if requested.IsZero() || requested.IsReverseOf(current) {
		return false
	}
	q.pending = append(q.pending, requested)
	return true
}

// DrainOne pops queued requests until one is a legal turn from current and
// returns it. Reversals are discarded along the way. At most one change is
// accepted per call; if nothing acceptable is queued, current is returned.
func (q *DirectionQueue) DrainOne(current core.Direction) core.Direction {
	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending[0] = core.Direction{}
		q.pending = q.pending[1:]
		if !next.IsReverseOf(current) {
			return next
		}
	}
	return current
}

// Len returns the number of pending requests.
func (q *DirectionQueue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the queued requests in arrival order.
func (q *DirectionQueue) Pending() []core.Direction {
	out := make([]core.Direction, len(q.pending))
	copy(out, q.pending)
	return out
}

// Clear drops all pending requests.
func (q *DirectionQueue) Clear() {
	q.pending = q.pending[:0]
}
