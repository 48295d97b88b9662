package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"phone-agent/internal/observability"
)

// Sweeper periodically evicts idle sessions from a Store.
type Sweeper struct {
	store       *Store
	logger      *observability.Logger
	idleTimeout time.Duration
	interval    time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewSweeper creates a Sweeper. An idleTimeout of zero disables eviction.
func NewSweeper(store *Store, logger *observability.Logger, idleTimeout, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:       store,
		logger:      logger,
		idleTimeout: idleTimeout,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	if w.idleTimeout <= 0 {
		w.logger.Info(ctx, "Session idle eviction disabled")
		return
	}
	w.logger.Info(ctx, fmt.Sprintf("Starting session sweeper (idle timeout %s)", w.idleTimeout))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-w.stopChan:
			w.logger.Info(ctx, "Stopping session sweeper")
			return
		case <-ctx.Done():
			w.logger.Info(ctx, "Context cancelled, stopping session sweeper")
			return
		}
	}
}

// Stop stops the sweep loop. It is safe to call more than once.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

// Sweep evicts idle sessions once and returns how many were removed.
func (w *Sweeper) Sweep(ctx context.Context) int {
	evicted := w.store.EvictIdle(w.idleTimeout)
	for _, id := range evicted {
		w.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "call_control_id", Value: id},
		), "Evicted idle call session")
	}
	return len(evicted)
}
