// Package scheduler provides the one-shot delayed task runner used for
// deferred adjudication outcomes.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TimerScheduler runs each task once after its delay on a detached goroutine.
// Tasks are keyed by claim id so a cancellation can stop a timer that has not
// fired yet; durability across restarts is the pending store's job, not ours.
type TimerScheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewTimerScheduler(logger *slog.Logger) *TimerScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerScheduler{
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a one-shot timer for claimID. Scheduling again for the same
// claim id replaces the previous timer.
func (s *TimerScheduler) Schedule(claimID string, delay time.Duration, task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if prev, ok := s.timers[claimID]; ok {
		prev.Stop()
	}
	s.timers[claimID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, claimID)
		s.mu.Unlock()

		s.logger.Info("deferred task firing",
			"module", "scheduler",
			"layer", "adapter",
			"operation", "run_task",
			"claim_id", claimID,
		)
		task(context.Background())
	})
}

// Cancel stops the pending timer for claimID, if any. A timer that already
// fired is a no-op.
func (s *TimerScheduler) Cancel(claimID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[claimID]; ok {
		t.Stop()
		delete(s.timers, claimID)
	}
}

// Close stops every pending timer. Used at shutdown; tasks lost here are
// recovered later by the sweeper worker via the pending store.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
