package postgres

import (
	"context"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"gorm.io/gorm"
)

// subscriptionRepository reads subscriber registrations written by the
// subscription intake surface. This core never writes to the table.
type subscriptionRepository struct {
	db *gorm.DB
}

func (r *subscriptionRepository) FindForClaim(ctx context.Context, claimID, patient string) (domain.SubscriptionRecord, error) {
	var rec subscriptionModel
	err := r.db.WithContext(ctx).
		Where("claim_id = ? AND patient = ?", claimID, patient).
		Take(&rec).Error
	if err != nil {
		return domain.SubscriptionRecord{}, mapNotFound(err)
	}
	return domain.SubscriptionRecord{
		ID:          rec.ID,
		ClaimID:     rec.ClaimID,
		Patient:     rec.Patient,
		ChannelType: rec.ChannelType,
		Endpoint:    rec.Endpoint,
	}, nil
}
