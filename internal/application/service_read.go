package application

import (
	"context"
	"fmt"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// Read and delete operations backing the REST surface. Reads are scoped by
// (id, patient) so one patient cannot address another's records.

func (s *Service) GetClaim(ctx context.Context, id, patient, status string) (domain.ClaimRecord, error) {
	claim, err := s.claims.Get(ctx, id, patient)
	if err != nil {
		return domain.ClaimRecord{}, err
	}
	if status != "" && claim.Status != status {
		return domain.ClaimRecord{}, fmt.Errorf("claim %s with status %s: %w", id, status, domain.ErrNotFound)
	}
	return claim, nil
}

func (s *Service) GetBundle(ctx context.Context, id, patient string) (domain.BundleRecord, error) {
	return s.bundles.Get(ctx, id, patient)
}

func (s *Service) GetClaimResponse(ctx context.Context, id, patient string) (domain.ClaimResponseRecord, error) {
	return s.responses.Get(ctx, id, patient)
}

// DeleteClaim removes one claim version. Line items go with it through the
// schema's cascade rule.
func (s *Service) DeleteClaim(ctx context.Context, id, patient string) error {
	return s.claims.Delete(ctx, id, patient)
}

func (s *Service) DeleteBundle(ctx context.Context, id, patient string) error {
	return s.bundles.Delete(ctx, id, patient)
}

func (s *Service) DeleteClaimResponse(ctx context.Context, id, patient string) error {
	return s.responses.Delete(ctx, id, patient)
}
