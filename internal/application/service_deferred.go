package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// scheduleResolution records a Pending decision's pre-selected deferred
// outcome in the pending store, then arms the one-shot timer. The store entry
// is written first so a crash between the two steps leaves a due entry the
// sweeper worker can recover, rather than a timer with no fence.
func (s *Service) scheduleResolution(ctx context.Context, claimID, patient, disposition string, bundle json.RawMessage) {
	token := uuid.NewString()
	pending := domain.PendingResolution{
		ClaimID:     claimID,
		Patient:     patient,
		Disposition: disposition,
		Token:       token,
		Bundle:      bundle,
		DueAt:       s.nowFn().Add(s.cfg.ResolutionDelay),
	}
	if err := s.pending.Put(ctx, pending); err != nil {
		s.logger.ErrorContext(ctx, "failed to record pending resolution",
			"module", "application",
			"operation", "schedule_resolution",
			"outcome", "failure",
			"claim_id", claimID,
			"error", err,
		)
		return
	}

	resolution := DeferredResolution{
		ClaimID:     claimID,
		Patient:     patient,
		Disposition: disposition,
		Token:       token,
		Bundle:      bundle,
	}
	s.scheduler.Schedule(claimID, s.cfg.ResolutionDelay, func(taskCtx context.Context) {
		if err := s.ResolveDeferred(taskCtx, resolution); err != nil {
			// Deferred failures are logged and swallowed: the originating
			// request completed long ago and has no caller to surface to.
			s.logger.ErrorContext(taskCtx, "deferred resolution failed",
				"module", "application",
				"operation", "resolve_deferred",
				"outcome", "failure",
				"claim_id", claimID,
				"error", err,
			)
		}
	})

	s.logger.InfoContext(ctx, "deferred resolution scheduled",
		"module", "application",
		"operation", "schedule_resolution",
		"outcome", "success",
		"claim_id", claimID,
		"due_in", s.cfg.ResolutionDelay.String(),
	)
}

// ResolveDeferred applies a pre-selected deferred outcome to a claim that was
// left Pending: it produces a new ClaimResponseRecord and triggers subscriber
// notification. The pending-store token is claimed first; if the entry is
// gone (claim cancelled in the meantime) or fenced by another token, the
// resolution is a no-op.
func (s *Service) ResolveDeferred(ctx context.Context, res DeferredResolution) error {
	_, ok, err := s.pending.Claim(ctx, res.ClaimID, res.Token)
	if err != nil {
		return fmt.Errorf("claim pending resolution for %s: %w", res.ClaimID, err)
	}
	if !ok {
		s.logger.InfoContext(ctx, "deferred resolution superseded",
			"module", "application",
			"operation", "resolve_deferred",
			"outcome", "skipped",
			"claim_id", res.ClaimID,
		)
		return nil
	}

	record, err := s.claims.Get(ctx, res.ClaimID, res.Patient)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "claim vanished before deferred resolution",
				"module", "application",
				"operation", "resolve_deferred",
				"outcome", "skipped",
				"claim_id", res.ClaimID,
			)
			return nil
		}
		return fmt.Errorf("load claim %s: %w", res.ClaimID, err)
	}

	claim, err := domain.DecodeClaim(record.Resource)
	if err != nil {
		return fmt.Errorf("decode stored claim %s: %w", res.ClaimID, err)
	}

	var bundle domain.Bundle
	if len(res.Bundle) > 0 {
		if err := json.Unmarshal(res.Bundle, &bundle); err != nil {
			return fmt.Errorf("decode submission bundle for %s: %w", res.ClaimID, err)
		}
	}

	if _, err := s.generateResponse(ctx, bundle, claim, responseParams{
		ResponseID:  uuid.NewString(),
		ClaimID:     res.ClaimID,
		Patient:     res.Patient,
		Disposition: res.Disposition,
		Status:      domain.ResponseStatusActive,
	}); err != nil {
		return err
	}

	s.notifySubscriber(ctx, res.ClaimID, res.Patient)
	return nil
}

// SweepDue recovers pending resolutions whose due time passed without the
// in-process timer firing, which happens when the scheduling process
// restarted. Each recovered entry runs through the same resolution path.
func (s *Service) SweepDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.pending.ListDue(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	resolved := 0
	for _, p := range due {
		err := s.ResolveDeferred(ctx, DeferredResolution{
			ClaimID:     p.ClaimID,
			Patient:     p.Patient,
			Disposition: p.Disposition,
			Token:       p.Token,
			Bundle:      p.Bundle,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "swept resolution failed",
				"module", "application",
				"operation", "sweep_due",
				"outcome", "failure",
				"claim_id", p.ClaimID,
				"error", err,
			)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// notifySubscriber looks up the subscription registered for the claim and
// signals the delivery collaborator. Unsupported channel types are recorded
// as warnings; a missing subscription is not an error.
func (s *Service) notifySubscriber(ctx context.Context, claimID, patient string) {
	sub, err := s.subscriptions.FindForClaim(ctx, claimID, patient)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "subscription lookup failed",
				"module", "application",
				"operation", "notify_subscriber",
				"outcome", "failure",
				"claim_id", claimID,
				"error", err,
			)
		}
		return
	}

	switch sub.ChannelType {
	case domain.ChannelRestHook, domain.ChannelWebsocket:
		if err := s.notifier.Notify(ctx, sub.ChannelType, sub.Endpoint); err != nil {
			s.logger.WarnContext(ctx, "subscriber notification failed",
				"module", "application",
				"operation", "notify_subscriber",
				"outcome", "failure",
				"claim_id", claimID,
				"channel_type", sub.ChannelType,
				"error", err,
			)
		}
	default:
		s.logger.WarnContext(ctx, "unsupported subscription channel",
			"module", "application",
			"operation", "notify_subscriber",
			"outcome", "failure",
			"claim_id", claimID,
			"channel_type", sub.ChannelType,
			"error", domain.ErrUnsupportedChannel,
		)
	}
}
