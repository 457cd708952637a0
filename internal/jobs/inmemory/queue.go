// Package inmemory provides a channel-backed job queue. It is suitable for
// single-instance deployments and tests; a multi-instance deployment would
// swap in a broker-backed implementation of the same interfaces.
package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/jobs"
)

// retryDelay spaces out attempts of a failed job.
const retryDelay = 2 * time.Second

// Queue is an in-memory implementation of jobs.Publisher and jobs.Consumer.
// It is safe for concurrent use.
type Queue struct {
	jobChan   chan *jobs.Job
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	logger    *slog.Logger
	closed    bool
}

var _ jobs.Publisher = (*Queue)(nil)
var _ jobs.Consumer = (*Queue)(nil)

// NewQueue creates a new in-memory job queue. bufferSize determines how many
// jobs can be pending before Publish blocks.
func NewQueue(bufferSize int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		jobChan:   make(chan *jobs.Job, bufferSize),
		closeChan: make(chan struct{}),
		logger:    logger,
	}
}

// Publish enqueues a job. It fails when the queue is closed or the buffer is
// full rather than blocking the caller's request path.
func (q *Queue) Publish(ctx context.Context, job *jobs.Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("job queue is closed")
	}
	q.mu.Unlock()

	job.Status = jobs.StatusPending
	select {
	case q.jobChan <- job:
		q.logger.Debug("Job published",
			slog.String("job_id", job.JobID),
			slog.String("type", string(job.Type)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("job queue is full")
	}
}

// Start launches the consume loop in a goroutine and returns immediately.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case job, ok := <-q.jobChan:
				if !ok {
					return
				}
				q.process(ctx, job, handler)
			case <-q.closeChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// process runs one job attempt and requeues on failure until MaxAttempts.
func (q *Queue) process(ctx context.Context, job *jobs.Job, handler jobs.Handler) {
	job.Status = jobs.StatusRunning
	job.Attempts++

	err := handler(ctx, job)
	if err == nil {
		job.Status = jobs.StatusCompleted
		q.logger.Info("Job completed",
			slog.String("job_id", job.JobID),
			slog.String("type", string(job.Type)),
			slog.Int("attempts", job.Attempts))
		return
	}

	job.Error = err.Error()
	if job.Attempts >= job.MaxAttempts {
		job.Status = jobs.StatusFailed
		q.logger.Error("Job failed permanently",
			slog.String("job_id", job.JobID),
			slog.String("type", string(job.Type)),
			slog.Int("attempts", job.Attempts),
			slog.String("error", err.Error()))
		return
	}

	job.Status = jobs.StatusRetrying
	q.logger.Warn("Job failed, will retry",
		slog.String("job_id", job.JobID),
		slog.String("type", string(job.Type)),
		slog.Int("attempts", job.Attempts),
		slog.String("error", err.Error()))

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		select {
		case <-time.After(retryDelay):
		case <-q.closeChan:
			return
		}
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return
		}
		select {
		case q.jobChan <- job:
		default:
			q.logger.Error("Dropping retry, queue full",
				slog.String("job_id", job.JobID))
		}
	}()
}

// Stop closes the queue and waits for in-flight jobs to complete.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.closeChan)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements jobs.Publisher.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}
