package inmemory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueue_PublishAndConsume(t *testing.T) {
	q := NewQueue(4, nil)

	var handled atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job *jobs.Job) error {
		handled.Add(1)
		return nil
	}))

	job := &jobs.Job{JobID: "j1", Type: jobs.TypeDetectRecurring, UserID: "u1", MaxAttempts: 3}
	require.NoError(t, q.Publish(context.Background(), job))

	waitFor(t, func() bool { return handled.Load() == 1 })
	require.NoError(t, q.Close())
	assert.Equal(t, jobs.StatusCompleted, job.Status)
}

func TestQueue_RetriesFailedJob(t *testing.T) {
	q := NewQueue(4, nil)

	var attempts atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job *jobs.Job) error {
		if attempts.Add(1) < 2 {
			return fmt.Errorf("transient failure")
		}
		return nil
	}))

	job := &jobs.Job{JobID: "j2", Type: jobs.TypeCategoriseTransactions, UserID: "u1", MaxAttempts: 3}
	require.NoError(t, q.Publish(context.Background(), job))

	waitFor(t, func() bool { return attempts.Load() == 2 })
	require.NoError(t, q.Close())
	assert.Equal(t, jobs.StatusCompleted, job.Status)
	assert.Equal(t, 2, job.Attempts)
}

func TestQueue_FailsPermanentlyAfterMaxAttempts(t *testing.T) {
	q := NewQueue(4, nil)

	var attempts atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job *jobs.Job) error {
		attempts.Add(1)
		return fmt.Errorf("always fails")
	}))

	job := &jobs.Job{JobID: "j3", Type: jobs.TypeDetectRecurring, UserID: "u1", MaxAttempts: 2}
	require.NoError(t, q.Publish(context.Background(), job))

	waitFor(t, func() bool { return attempts.Load() == 2 })
	require.NoError(t, q.Close())
	assert.Equal(t, jobs.StatusFailed, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Contains(t, job.Error, "always fails")
}

func TestQueue_PublishAfterCloseFails(t *testing.T) {
	q := NewQueue(1, nil)
	require.NoError(t, q.Close())

	err := q.Publish(context.Background(), &jobs.Job{JobID: "j4", MaxAttempts: 1})
	assert.Error(t, err)
}
