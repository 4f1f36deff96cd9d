// Package events holds background workers detached from the request path.
package events

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the slice of the application service the worker drives.
type Sweeper interface {
	SweepDue(ctx context.Context, now time.Time, limit int) (int, error)
}

// ResolutionWorker periodically re-fires deferred resolutions whose due time
// passed without the in-process timer running, which happens whenever the
// scheduling process restarts. The pending store's token fence keeps the
// worker and a live timer from both resolving the same entry.
type ResolutionWorker struct {
	logger    *slog.Logger
	sweeper   Sweeper
	interval  time.Duration
	batchSize int
}

func NewResolutionWorker(logger *slog.Logger, sweeper Sweeper, interval time.Duration, batchSize int) *ResolutionWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ResolutionWorker{
		logger:    logger,
		sweeper:   sweeper,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run executes the periodic sweep loop until context cancellation.
func (w *ResolutionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		resolved, err := w.sweeper.SweepDue(ctx, time.Now().UTC(), w.batchSize)
		if err != nil {
			w.logger.ErrorContext(ctx, "resolution sweep failed",
				"module", "events.resolution_worker",
				"layer", "adapter",
				"operation", "sweep_due",
				"outcome", "failure",
				"error", err,
			)
		} else if resolved > 0 {
			w.logger.InfoContext(ctx, "recovered deferred resolutions",
				"module", "events.resolution_worker",
				"layer", "adapter",
				"operation", "sweep_due",
				"outcome", "success",
				"resolved_count", resolved,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
