// Package worker runs user actions off the interactive goroutine and
// delivers their outcomes to a single consumer.
//
// Every submitted task runs in its own goroutine and produces exactly one
// Outcome, even if it panics. Outcomes are queued without bound, so a
// finishing task never waits for the consumer. Tasks cannot be cancelled
// once submitted; Close waits for all of them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is the outcome error for tasks submitted after Close.
var ErrClosed = errors.New("worker: runner closed")

// Task is one unit of work. The context is never cancelled by the Runner.
type Task func(ctx context.Context) (any, error)

// Outcome is the single result of a task.
type Outcome struct {
	ID    string
	Op    string
	Value any
	Err   error
}

// Runner spawns one goroutine per task and queues their outcomes.
type Runner struct {
	ids   IDGenerator
	queue *outcomeQueue

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithIDGenerator replaces the default UUIDv7 task IDs.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Runner) {
		r.ids = gen
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		ids:   UUIDv7Generator{},
		queue: newOutcomeQueue(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit starts fn in a new goroutine and returns its task ID.
//
// After Close, fn is not run; an Outcome carrying ErrClosed is queued instead.
func (r *Runner) Submit(op string, fn Task) string {
	id := r.ids.Generate()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.queue.Enqueue(Outcome{ID: id, Op: op, Err: ErrClosed})
		return id
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(id, op, fn)
	return id
}

func (r *Runner) run(id, op string, fn Task) {
	start := time.Now()
	out := Outcome{ID: id, Op: op}

	defer func() {
		if rec := recover(); rec != nil {
			out.Value = nil
			out.Err = fmt.Errorf("task %s panicked: %v", op, rec)
		}
		slog.Debug("task finished",
			"task_id", id,
			"op", op,
			"ok", out.Err == nil,
			"duration", time.Since(start),
		)
		r.queue.Enqueue(out)
		r.wg.Done()
	}()

	slog.Debug("task started", "task_id", id, "op", op)
	out.Value, out.Err = fn(context.Background())
}

// Next returns the next outcome, blocking until one is available.
//
// Returns false once the Runner is closed and every outcome has been
// consumed, or when ctx is done.
func (r *Runner) Next(ctx context.Context) (Outcome, bool) {
	for {
		if o, ok := r.queue.TryDequeue(); ok {
			return o, true
		}
		if r.queue.Drained() {
			return Outcome{}, false
		}

		select {
		case <-ctx.Done():
			return Outcome{}, false
		case <-r.queue.Wait():
		}
	}
}

// Pending returns the number of outcomes waiting to be consumed.
func (r *Runner) Pending() int {
	return r.queue.Len()
}

// Close stops accepting tasks, waits for running ones to finish, and
// lets Next drain the remaining outcomes. Idempotent.
func (r *Runner) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		r.wg.Wait()
		r.queue.Close()
	})
}

// Do submits one task on a fresh Runner and waits for its outcome.
func Do(ctx context.Context, op string, fn Task, opts ...Option) Outcome {
	r := New(opts...)
	r.Submit(op, fn)
	r.Close()

	out, ok := r.Next(ctx)
	if !ok {
		return Outcome{Op: op, Err: ctx.Err()}
	}
	return out
}
