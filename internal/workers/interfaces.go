package workers

import (
	"context"
	"errors"
	"time"

	"phone-agent/internal/voicecall/session"

	"go.opentelemetry.io/otel/trace"
)

var (
	ErrPoolNotStarted   = errors.New("worker pool not started")
	ErrPoolShuttingDown = errors.New("worker pool is shutting down")
	ErrQueueFull        = errors.New("worker pool queue full")
)

// TurnJob is one utterance window for a call, queued for a conversation turn.
// Session is the instance whose in-flight flag was set for this job.
// SpanContext parents the turn span to the event that queued it.
type TurnJob struct {
	ID          string
	CallID      string
	EventType   string
	Audio       []byte
	Session     *session.Session
	SpanContext trace.SpanContext
	QueuedAt    time.Time
}

// TurnProcessor defines the interface for processing queued turn jobs.
type TurnProcessor interface {
	// Process runs a single job. Errors are logged by the pool and reported
	// to the result callback; jobs are never retried.
	Process(ctx context.Context, job TurnJob) error

	// Name returns the processor name for logging and metrics.
	Name() string
}

// WorkerPool defines the interface for managing a pool of turn workers.
type WorkerPool interface {
	// Start initializes the worker pool with N workers.
	Start(ctx context.Context) error

	// Submit queues a job without blocking. It returns ErrQueueFull when the
	// queue has no room.
	Submit(ctx context.Context, job TurnJob) error

	// Drain stops accepting new jobs and waits for queued and in-flight jobs
	// to complete, bounded by the drain timeout.
	Drain(ctx context.Context) error

	// Stop immediately stops all workers. Jobs still queued are not processed;
	// their sessions are released.
	Stop()
}
