package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduleFiresOnce(t *testing.T) {
	t.Parallel()

	s := NewTimerScheduler(discardLogger())
	defer s.Close()

	fired := make(chan struct{}, 2)
	s.Schedule("claim-1", 10*time.Millisecond, func(context.Context) {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("task did not fire")
	}
	select {
	case <-fired:
		t.Fatalf("task fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsPendingTask(t *testing.T) {
	t.Parallel()

	s := NewTimerScheduler(discardLogger())
	defer s.Close()

	fired := make(chan struct{}, 1)
	s.Schedule("claim-1", time.Hour, func(context.Context) {
		fired <- struct{}{}
	})
	s.Cancel("claim-1")

	select {
	case <-fired:
		t.Fatalf("cancelled task fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRescheduleReplacesTimer(t *testing.T) {
	t.Parallel()

	s := NewTimerScheduler(discardLogger())
	defer s.Close()

	fired := make(chan string, 2)
	s.Schedule("claim-1", time.Hour, func(context.Context) {
		fired <- "first"
	})
	s.Schedule("claim-1", 10*time.Millisecond, func(context.Context) {
		fired <- "second"
	})

	select {
	case got := <-fired:
		if got != "second" {
			t.Fatalf("expected replacement task, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("replacement task did not fire")
	}
}

func TestCloseStopsEverything(t *testing.T) {
	t.Parallel()

	s := NewTimerScheduler(discardLogger())
	fired := make(chan struct{}, 1)
	s.Schedule("claim-1", 20*time.Millisecond, func(context.Context) {
		fired <- struct{}{}
	})
	s.Close()

	select {
	case <-fired:
		t.Fatalf("task fired after close")
	case <-time.After(100 * time.Millisecond):
	}

	// Scheduling after close is a no-op.
	s.Schedule("claim-2", time.Millisecond, func(context.Context) {
		fired <- struct{}{}
	})
	select {
	case <-fired:
		t.Fatalf("task scheduled after close fired")
	case <-time.After(50 * time.Millisecond):
	}
}
