package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"phone-agent/internal/observability"

	"go.opentelemetry.io/otel/trace"
)

// ProcessingResult represents the result of processing a job.
type ProcessingResult struct {
	Job   TurnJob
	Error error
}

// ResultCallback is called after each job is processed.
type ResultCallback func(result ProcessingResult)

// WorkerPoolConfig holds configuration for the worker pool.
type WorkerPoolConfig struct {
	// NumWorkers is the number of concurrent workers to run.
	NumWorkers int

	// QueueSize is the size of the job queue buffer.
	// If the queue is full, Submit() returns ErrQueueFull.
	QueueSize int

	// DrainTimeout is the maximum time to wait for in-flight jobs
	// to complete during graceful shutdown.
	DrainTimeout time.Duration

	// OnResult is called after each job is processed (optional).
	OnResult ResultCallback
}

// DefaultWorkerPoolConfig returns sensible defaults for a worker pool.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		NumWorkers:   8,
		QueueSize:    64,
		DrainTimeout: 30 * time.Second,
	}
}

// pool implements the WorkerPool interface.
type pool struct {
	config    WorkerPoolConfig
	processor TurnProcessor
	logger    *observability.Logger

	jobChan chan TurnJob
	wg      sync.WaitGroup

	// Lifecycle management
	mu       sync.Mutex
	started  bool
	draining bool
	stopped  bool
	cancelFn context.CancelFunc
}

// NewWorkerPool creates a new worker pool for processing turn jobs.
func NewWorkerPool(
	config WorkerPoolConfig,
	processor TurnProcessor,
	logger *observability.Logger,
) WorkerPool {
	if config.NumWorkers <= 0 {
		config.NumWorkers = DefaultWorkerPoolConfig().NumWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerPoolConfig().QueueSize
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = DefaultWorkerPoolConfig().DrainTimeout
	}

	return &pool{
		config:    config,
		processor: processor,
		logger:    logger,
		jobChan:   make(chan TurnJob, config.QueueSize),
	}
}

// Start initializes the worker pool with N workers.
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}
	if p.stopped {
		return fmt.Errorf("worker pool already stopped")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancelFn = cancel
	p.started = true

	for i := 0; i < p.config.NumWorkers; i++ {
		p.wg.Add(1)
		go p.worker(workerCtx, i)
	}

	p.logger.Info(ctx, fmt.Sprintf("Started %d workers for %s processor",
		p.config.NumWorkers, p.processor.Name()))

	return nil
}

// Submit queues a job for processing without blocking.
func (p *pool) Submit(ctx context.Context, job TurnJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return ErrPoolNotStarted
	}
	if p.draining || p.stopped {
		return ErrPoolShuttingDown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The send happens under mu so Drain/Stop cannot close the channel
	// underneath it.
	select {
	case p.jobChan <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain stops accepting new jobs and waits for in-flight jobs to complete.
func (p *pool) Drain(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}
	if p.draining || p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("worker pool already draining")
	}
	p.draining = true
	close(p.jobChan)
	p.mu.Unlock()

	p.logger.Info(ctx, fmt.Sprintf("Draining worker pool for %s processor, waiting for %d queued jobs",
		p.processor.Name(), len(p.jobChan)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	drainCtx, cancel := context.WithTimeout(ctx, p.config.DrainTimeout)
	defer cancel()

	select {
	case <-done:
		p.logger.Info(ctx, fmt.Sprintf("Successfully drained worker pool for %s processor",
			p.processor.Name()))
		return nil
	case <-drainCtx.Done():
		p.logger.Warn(ctx, fmt.Sprintf("Drain timeout exceeded for %s processor, forcing shutdown",
			p.processor.Name()))
		p.Stop()
		return fmt.Errorf("drain timeout exceeded")
	}
}

// Stop immediately stops all workers.
func (p *pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true

	if p.cancelFn != nil {
		p.cancelFn()
	}

	if !p.draining {
		close(p.jobChan)
	}
}

// worker is the main worker loop that processes jobs from the queue.
func (p *pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	workerCtx := observability.WithFields(ctx,
		observability.Field{Key: "worker_id", Value: workerID},
		observability.Field{Key: "processor", Value: p.processor.Name()},
	)

	p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d started for %s processor",
		workerID, p.processor.Name()))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d stopping: context cancelled", workerID))
			p.releaseQueued(workerCtx)
			return

		case job, ok := <-p.jobChan:
			if !ok {
				p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d stopping: job channel closed", workerID))
				return
			}

			if ctx.Err() != nil {
				p.release(workerCtx, job)
				continue
			}

			jobCtx := workerCtx
			if job.SpanContext.IsValid() {
				jobCtx = trace.ContextWithSpanContext(jobCtx, job.SpanContext)
			}
			jobCtx = observability.WithFields(jobCtx,
				observability.Field{Key: "job_id", Value: job.ID},
				observability.Field{Key: "event_type", Value: job.EventType},
				observability.Field{Key: "call_control_id", Value: job.CallID},
				observability.Field{Key: "queue_wait_ms", Value: time.Since(job.QueuedAt).Milliseconds()},
			)

			err := p.processor.Process(jobCtx, job)
			if err != nil {
				p.logger.Error(jobCtx, fmt.Sprintf("Worker %d failed to process job", workerID), err)
			} else {
				p.logger.Debug(jobCtx, fmt.Sprintf("Worker %d successfully processed job", workerID))
			}

			if p.config.OnResult != nil {
				p.config.OnResult(ProcessingResult{
					Job:   job,
					Error: err,
				})
			}
		}
	}
}

// releaseQueued discards whatever is left in the queue after a stop.
func (p *pool) releaseQueued(ctx context.Context) {
	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.release(ctx, job)
		default:
			return
		}
	}
}

// release drops a job without processing it and clears its turn claim.
func (p *pool) release(ctx context.Context, job TurnJob) {
	if job.Session != nil {
		job.Session.EndTurn()
	}
	p.logger.Warn(observability.WithFields(ctx,
		observability.Field{Key: "job_id", Value: job.ID},
		observability.Field{Key: "call_control_id", Value: job.CallID},
	), "Discarded queued turn on shutdown")

	if p.config.OnResult != nil {
		p.config.OnResult(ProcessingResult{
			Job:   job,
			Error: ErrPoolShuttingDown,
		})
	}
}
