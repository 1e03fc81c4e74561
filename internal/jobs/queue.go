// Package jobs runs prioritized, cancellable background work on a bounded
// pond worker pool and hands results back through a ReadyMap.
package jobs

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds each queue unless configured otherwise.
const DefaultConcurrency = 8

// Queue keeps submitted tickets in a priority heap. Every Submit hands one
// dispatch task to the pool; a dispatch pops whichever pending ticket has
// the highest priority at that moment, so the pool order never matters.
type Queue struct {
	name string
	pool pond.Pool
	log  *zap.Logger

	mu      sync.Mutex
	pending ticketHeap
	seq     uint64
	closed  bool

	outstanding sync.WaitGroup
}

func NewQueue(name string, concurrency int, log *zap.Logger) *Queue {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		name: name,
		pool: pond.NewPool(concurrency),
		log:  log.With(zap.String("queue", name), zap.Int("concurrency", concurrency)),
	}
}

// Submit enqueues run at the given priority. Submit is meant to be called
// from a single goroutine, the same one that calls Wait. After Close the
// returned ticket is already cancelled and finished and run never executes.
func (q *Queue) Submit(priority Priority, run func(*Ticket)) *Ticket {
	if run == nil {
		panic(fmt.Sprintf("jobs: %s: nil job", q.name))
	}
	t := &Ticket{id: uuid.New(), run: run, index: -1}
	t.priority.Store(int32(priority))

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		t.markCancelled()
		t.finished.Store(true)
		q.logTicket("job submitted to closed queue", t)
		return t
	}
	q.seq++
	t.seq = q.seq
	heap.Push(&q.pending, t)

	// Added under the lock so Close cannot stop the pool between the
	// closed check and the pool submission.
	q.outstanding.Add(1)
	q.pool.Submit(q.dispatch)
	q.mu.Unlock()
	q.logTicket("job submitted", t)
	return t
}

func (q *Queue) dispatch() {
	defer q.outstanding.Done()

	q.mu.Lock()
	if q.pending.Len() == 0 {
		q.mu.Unlock()
		return
	}
	t := heap.Pop(&q.pending).(*Ticket)
	q.mu.Unlock()

	defer t.finished.Store(true)
	if t.Cancelled() {
		return
	}
	t.run(t)
}

// Reprioritize moves a pending ticket. Running or finished tickets only
// record the new value.
func (q *Queue) Reprioritize(t *Ticket, priority Priority) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if Priority(t.priority.Load()) == priority {
		return
	}
	t.priority.Store(int32(priority))
	if t.index >= 0 && t.index < q.pending.Len() && q.pending[t.index] == t {
		heap.Fix(&q.pending, t.index)
	}
}

// Cancel flags t and drops it from the heap if it has not started. A running
// job observes the flag through Ticket.Cancelled.
func (q *Queue) Cancel(t *Ticket) {
	if !t.markCancelled() {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if t.index >= 0 && t.index < q.pending.Len() && q.pending[t.index] == t {
		heap.Remove(&q.pending, t.index)
		t.finished.Store(true)
		q.logTicket("pending job cancelled", t)
	}
}

// CancelAll cancels every pending ticket and returns how many were dropped.
func (q *Queue) CancelAll() int {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	for _, t := range dropped {
		t.index = -1
		t.markCancelled()
		t.finished.Store(true)
	}
	q.mu.Unlock()
	return len(dropped)
}

// Wait blocks until every submitted job has run or been dropped.
func (q *Queue) Wait() {
	q.outstanding.Wait()
}

// Pending reports tickets not yet picked up by a worker.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Pending        int
	RunningWorkers int64
	WaitingTasks   uint64
	Completed      uint64
}

func (q *Queue) Stats() Stats {
	return Stats{
		Pending:        q.Pending(),
		RunningWorkers: q.pool.RunningWorkers(),
		WaitingTasks:   q.pool.WaitingTasks(),
		Completed:      q.pool.CompletedTasks(),
	}
}

// Close cancels pending work and stops the pool once running jobs return.
// Later submissions are refused. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	dropped := q.CancelAll()
	q.pool.StopAndWait()
	q.log.Debug("queue closed", zap.Int("dropped", dropped))
}

func (q *Queue) logTicket(msg string, t *Ticket) {
	if ce := q.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.Stringer("ticket", t.id), zap.Stringer("priority", t.Priority()))
	}
}

// ticketHeap is a max-heap on priority, FIFO within a priority.
type ticketHeap []*Ticket

func (h ticketHeap) Len() int { return len(h) }

func (h ticketHeap) Less(i, j int) bool {
	pi, pj := h[i].Priority(), h[j].Priority()
	if pi != pj {
		return pi > pj
	}
	return h[i].seq < h[j].seq
}

func (h ticketHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *ticketHeap) Push(x any) {
	t := x.(*Ticket)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *ticketHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
