package ports

import (
	"context"
	"time"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// PendingResolutionStore durably tracks deferred adjudications that have been
// scheduled but not yet fired. The store is the source of truth for whether a
// deferred resolution may still run: cancelling a claim removes its entry, so
// a stale timer can no longer overwrite the cancellation.
type PendingResolutionStore interface {
	// Put records a scheduled resolution under its claim id.
	Put(ctx context.Context, pending domain.PendingResolution) error
	// Claim atomically removes and returns the entry for claimID when its
	// token matches, reporting false when the entry is gone or fenced by a
	// different token. Exactly one caller can win a given token.
	Claim(ctx context.Context, claimID, token string) (domain.PendingResolution, bool, error)
	// Invalidate drops any pending entry for claimID regardless of token.
	Invalidate(ctx context.Context, claimID string) error
	// ListDue returns entries whose due time is at or before now, up to
	// limit. Used by the sweeper worker to recover resolutions lost to a
	// process restart.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingResolution, error)
}

// DeferredScheduler runs a task once after a delay on an execution context
// detached from the originating request.
type DeferredScheduler interface {
	Schedule(claimID string, delay time.Duration, task func(ctx context.Context))
	// Cancel stops the in-process timer for claimID if one is still pending.
	Cancel(claimID string)
}
