package worker

import "sync"

// outcomeQueue is a thread-safe unbounded FIFO of outcomes.
//
// Producers never block: a task that finishes while nobody is consuming
// still hands off its outcome and exits. The signal channel lets the
// single consumer wait with a context.
//
// Close marks the end of regular production. An Enqueue after Close is
// still accepted (Submit on a closed Runner reports ErrClosed this way);
// consumers stop waiting once the queue is closed and empty.
type outcomeQueue struct {
	mu       sync.Mutex
	outcomes []Outcome
	closed   bool
	signal   chan struct{} // buffered, size 1
}

func newOutcomeQueue() *outcomeQueue {
	return &outcomeQueue{
		outcomes: make([]Outcome, 0, 8),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds an outcome to the back of the queue.
func (q *outcomeQueue) Enqueue(o Outcome) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.outcomes = append(q.outcomes, o)

	if q.closed {
		// signal is closed and already wakes every waiter
		return
	}
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryDequeue removes the front outcome without blocking.
func (q *outcomeQueue) TryDequeue() (Outcome, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.outcomes) == 0 {
		return Outcome{}, false
	}

	o := q.outcomes[0]
	// Drop the reference so the Value can be collected.
	q.outcomes[0] = Outcome{}
	if len(q.outcomes) == 1 {
		q.outcomes = q.outcomes[:0]
	} else {
		q.outcomes = q.outcomes[1:]
	}
	return o, true
}

// Drained reports whether the queue is closed and empty.
func (q *outcomeQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.outcomes) == 0
}

// Wait returns a channel that signals when outcomes may be available.
func (q *outcomeQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *outcomeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.outcomes)
}

// Close wakes any waiters. Idempotent.
func (q *outcomeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
