// Package jobs defines the background-job contract used to run enrichment and
// recurring detection outside the request path. Dispatch is fire-and-forget
// from the caller's point of view: a failed enqueue is logged, never treated
// as an ingestion error.
package jobs

import (
	"context"
	"time"
)

// Type identifies what work a job carries.
type Type string

const (
	// TypeCategoriseTransactions asks the enrichment service to categorise a
	// batch of freshly imported transactions.
	TypeCategoriseTransactions Type = "categorise_transactions"

	// TypeDetectRecurring asks the recurring detector to re-analyse a user's
	// transaction history.
	TypeDetectRecurring Type = "detect_recurring"
)

// Status represents the current status of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRetrying  Status = "retrying"
)

// Job is one unit of background work. Delivery is at-least-once: a handler
// error requeues the job until MaxAttempts is exhausted, so handlers must be
// idempotent.
type Job struct {
	JobID          string    `json:"job_id"`
	Type           Type      `json:"type"`
	UserID         string    `json:"user_id"`
	TransactionIDs []string  `json:"transaction_ids,omitempty"`
	GroupIDs       []string  `json:"group_ids,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	Attempts       int       `json:"attempts"`
	MaxAttempts    int       `json:"max_attempts"`
	Error          string    `json:"error,omitempty"`
}

// Publisher enqueues jobs. Implementations may be in-memory or backed by an
// external broker; callers see no delivery guarantee either way.
type Publisher interface {
	Publish(ctx context.Context, job *Job) error
	Close() error
}

// Handler processes a single job. Returning an error marks the attempt failed
// and eligible for retry.
type Handler func(ctx context.Context, job *Job) error

// Consumer pulls jobs off a queue and runs them through a Handler.
type Consumer interface {
	// Start begins consuming. It returns once the consume loop is running.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}
