package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// cancelClaim cancels one claim version and cascades the cancellation across
// its whole update chain, forward to every newer version and backward to
// every version it replaced. A cancellation must be visible regardless of
// which version in the chain a client queries by. Items under the most-recent
// version are cancelled as well, and any pending deferred resolution in the
// chain is invalidated so a stale outcome cannot overwrite the cancellation.
func (s *Service) cancelClaim(ctx context.Context, claimID, patient string) error {
	claim, err := s.claims.Get(ctx, claimID, patient)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "cancellation target does not exist",
				"module", "application",
				"operation", "cancel_claim",
				"outcome", "failure",
				"claim_id", claimID,
			)
			return fmt.Errorf("claim %s: %w", claimID, domain.ErrNotFound)
		}
		return fmt.Errorf("%w: load claim %s: %v", domain.ErrProcessingFailed, claimID, err)
	}
	if claim.Status == domain.ClaimStatusCancelled {
		s.logger.WarnContext(ctx, "claim is already cancelled",
			"module", "application",
			"operation", "cancel_claim",
			"outcome", "failure",
			"claim_id", claimID,
		)
		return fmt.Errorf("claim %s: %w", claimID, domain.ErrAlreadyCancelled)
	}

	if err := s.markCancelled(ctx, claim); err != nil {
		return err
	}

	cancelled := map[string]struct{}{claimID: {}}
	if err := s.cascadeForward(ctx, claimID, cancelled); err != nil {
		return err
	}
	if err := s.cascadeBackward(ctx, claimID, cancelled); err != nil {
		return err
	}

	mostRecent, err := s.mostRecentID(ctx, claimID)
	if err != nil {
		return fmt.Errorf("%w: resolve most recent of %s: %v", domain.ErrProcessingFailed, claimID, err)
	}
	if err := s.items.CancelAll(ctx, mostRecent); err != nil {
		return fmt.Errorf("%w: cancel items of %s: %v", domain.ErrProcessingFailed, mostRecent, err)
	}

	for id := range cancelled {
		s.scheduler.Cancel(id)
		if err := s.pending.Invalidate(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate pending resolution",
				"module", "application",
				"operation", "cancel_claim",
				"outcome", "failure",
				"claim_id", id,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "claim cancelled",
		"module", "application",
		"operation", "cancel_claim",
		"outcome", "success",
		"claim_id", claimID,
		"chain_size", len(cancelled),
	)
	return nil
}

// cascadeForward walks newer versions: claims whose Related field points at
// the current id.
func (s *Service) cascadeForward(ctx context.Context, from string, cancelled map[string]struct{}) error {
	current := from
	for hops := 0; hops < maxChainHops; hops++ {
		next, err := s.claims.FindByRelated(ctx, current)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: cascade forward from %s: %v", domain.ErrProcessingFailed, current, err)
		}
		if _, seen := cancelled[next.ID]; seen {
			return nil
		}
		if err := s.markCancelled(ctx, next); err != nil {
			return err
		}
		cancelled[next.ID] = struct{}{}
		current = next.ID
	}
	return fmt.Errorf("%w: cascade forward from %s: %v", domain.ErrProcessingFailed, from, errChainTooDeep)
}

// cascadeBackward walks older versions by following Related pointers until
// the oldest version is reached.
func (s *Service) cascadeBackward(ctx context.Context, from string, cancelled map[string]struct{}) error {
	current := from
	for hops := 0; hops < maxChainHops; hops++ {
		related, err := s.claims.Related(ctx, current)
		if err != nil {
			return fmt.Errorf("%w: cascade backward from %s: %v", domain.ErrProcessingFailed, current, err)
		}
		if related == nil {
			return nil
		}
		if _, seen := cancelled[*related]; seen {
			return nil
		}
		prior, err := s.claims.GetByID(ctx, *related)
		if err != nil {
			return fmt.Errorf("%w: load prior version %s: %v", domain.ErrProcessingFailed, *related, err)
		}
		if err := s.markCancelled(ctx, prior); err != nil {
			return err
		}
		cancelled[prior.ID] = struct{}{}
		current = prior.ID
	}
	return fmt.Errorf("%w: cascade backward from %s: %v", domain.ErrProcessingFailed, from, errChainTooDeep)
}

// markCancelled flips one claim version to cancelled, keeping the stored
// resource document in step with the record status.
func (s *Service) markCancelled(ctx context.Context, claim domain.ClaimRecord) error {
	resource, err := setResourceStatus(claim.Resource, domain.ClaimStatusCancelled)
	if err != nil {
		return fmt.Errorf("%w: rewrite resource status of %s: %v", domain.ErrProcessingFailed, claim.ID, err)
	}
	if err := s.claims.UpdateStatus(ctx, claim.ID, domain.ClaimStatusCancelled, resource); err != nil {
		return fmt.Errorf("%w: cancel claim %s: %v", domain.ErrProcessingFailed, claim.ID, err)
	}
	return nil
}
