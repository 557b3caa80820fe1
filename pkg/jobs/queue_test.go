package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	q := NewQueue("test", func(_ context.Context, job Job[string]) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Payload)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())

	for _, payload := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job[string]{ID: payload, Payload: payload}))
	}
	require.NoError(t, q.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue("retry", func(_ context.Context, job Job[int]) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job[int]{ID: "1"}))
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue("giveup", func(context.Context, Job[int]) error {
		calls.Add(1)
		return errors.New("permanent")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job[int]{ID: "1"}))
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueueRejectsWhenClosedOrFull(t *testing.T) {
	q := NewQueue("closed", func(context.Context, Job[int]) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job[int]{}), ErrQueueClosed)

	release := make(chan struct{})
	full := NewQueue("full", func(context.Context, Job[int]) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	full.Start(context.Background())

	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = full.Enqueue(Job[int]{})
	}
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	require.NoError(t, full.Stop(context.Background()))
	assert.ErrorIs(t, full.Enqueue(Job[int]{}), ErrQueueClosed)
}

func TestQueueStopHonoursDeadline(t *testing.T) {
	q := NewQueue("slow", func(ctx context.Context, _ Job[int]) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{MaxRetries: 0})
	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job[int]{ID: "1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
