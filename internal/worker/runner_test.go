package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextWithin(t *testing.T, r *Runner, d time.Duration) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	out, ok := r.Next(ctx)
	require.True(t, ok, "expected an outcome within %v", d)
	return out
}

func TestRunner_OneOutcomePerTask(t *testing.T) {
	r := New(WithIDGenerator(NewFixedGenerator("t1")))

	id := r.Submit("answer", func(context.Context) (any, error) {
		return 42, nil
	})
	assert.Equal(t, "t1", id)

	out := nextWithin(t, r, time.Second)
	assert.Equal(t, Outcome{ID: "t1", Op: "answer", Value: 42}, out)

	r.Close()
	_, ok := r.Next(context.Background())
	assert.False(t, ok, "closed and drained runner yields no more outcomes")
}

func TestRunner_ErrorOutcome(t *testing.T) {
	r := New()
	boom := errors.New("boom")

	r.Submit("fail", func(context.Context) (any, error) {
		return nil, boom
	})

	out := nextWithin(t, r, time.Second)
	assert.ErrorIs(t, out.Err, boom)
	assert.Nil(t, out.Value)
	assert.Equal(t, "fail", out.Op)
	assert.NotEmpty(t, out.ID)
	r.Close()
}

func TestRunner_PanicBecomesError(t *testing.T) {
	r := New()

	r.Submit("explode", func(context.Context) (any, error) {
		panic("kaboom")
	})

	out := nextWithin(t, r, time.Second)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "task explode panicked: kaboom")
	r.Close()
}

func TestRunner_ProducersDoNotBlock(t *testing.T) {
	r := New()
	const tasks = 50

	for i := 0; i < tasks; i++ {
		n := i
		r.Submit("count", func(context.Context) (any, error) {
			return n, nil
		})
	}

	// Nobody consumes until every task has finished.
	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked: producers waited for a consumer")
	}

	assert.Equal(t, tasks, r.Pending())

	seen := make(map[int]bool, tasks)
	for {
		out, ok := r.Next(context.Background())
		if !ok {
			break
		}
		require.NoError(t, out.Err)
		seen[out.Value.(int)] = true
	}
	assert.Len(t, seen, tasks)
}

func TestRunner_CloseWaitsForInFlight(t *testing.T) {
	r := New()
	var finished atomic.Bool
	release := make(chan struct{})

	r.Submit("slow", func(context.Context) (any, error) {
		<-release
		finished.Store(true)
		return nil, nil
	})

	closed := make(chan struct{})
	go func() {
		r.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned before the task finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-closed
	assert.True(t, finished.Load())

	out := nextWithin(t, r, time.Second)
	assert.Equal(t, "slow", out.Op)
}

func TestRunner_SubmitAfterClose(t *testing.T) {
	r := New(WithIDGenerator(NewFixedGenerator("late")))
	r.Close()

	var ran atomic.Bool
	id := r.Submit("late", func(context.Context) (any, error) {
		ran.Store(true)
		return nil, nil
	})
	assert.Equal(t, "late", id)

	out := nextWithin(t, r, time.Second)
	assert.ErrorIs(t, out.Err, ErrClosed)
	assert.Equal(t, "late", out.ID)
	assert.False(t, ran.Load(), "task must not run after Close")
}

func TestRunner_NextHonorsContext(t *testing.T) {
	r := New()
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := r.Next(ctx)
	assert.False(t, ok)
}

func TestRunner_CloseIdempotent(t *testing.T) {
	r := New()
	r.Close()
	assert.NotPanics(t, r.Close)
}

func TestDo(t *testing.T) {
	out := Do(context.Background(), "double", func(context.Context) (any, error) {
		return 21 * 2, nil
	}, WithIDGenerator(NewFixedGenerator("only")))

	assert.Equal(t, Outcome{ID: "only", Op: "double", Value: 42}, out)
}
