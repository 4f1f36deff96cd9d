package postgres

import (
	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

func toClaimModel(claim domain.ClaimRecord) *claimModel {
	return &claimModel{
		ID:        claim.ID,
		Patient:   claim.Patient,
		Status:    claim.Status,
		Related:   claim.Related,
		Resource:  string(claim.Resource),
		CreatedAt: claim.CreatedAt,
	}
}

func toDomainClaim(rec claimModel) domain.ClaimRecord {
	return domain.ClaimRecord{
		ID:        rec.ID,
		Patient:   rec.Patient,
		Status:    rec.Status,
		Related:   rec.Related,
		Resource:  []byte(rec.Resource),
		CreatedAt: rec.CreatedAt,
	}
}
