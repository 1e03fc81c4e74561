package jobs

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Priority orders queued tickets; higher runs first.
type Priority int32

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHighest
)

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// Ticket is the handle to one submitted job.
type Ticket struct {
	id        uuid.UUID
	seq       uint64
	priority  atomic.Int32
	cancelled atomic.Bool
	finished  atomic.Bool
	run       func(*Ticket)

	// index in the pending heap, -1 once popped or removed. Guarded by Queue.mu.
	index int
}

func (t *Ticket) ID() uuid.UUID {
	return t.id
}

func (t *Ticket) Priority() Priority {
	return Priority(t.priority.Load())
}

// Cancelled is polled by the job at start and at natural suspension points.
func (t *Ticket) Cancelled() bool {
	return t.cancelled.Load()
}

// Finished reports whether the job ran to completion or was dropped from the queue.
func (t *Ticket) Finished() bool {
	return t.finished.Load()
}

// markCancelled sets the cancellation flag and reports whether this call set it.
func (t *Ticket) markCancelled() bool {
	return t.cancelled.CompareAndSwap(false, true)
}
