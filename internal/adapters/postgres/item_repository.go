package postgres

import (
	"context"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"gorm.io/gorm"
)

type claimItemRepository struct {
	db *gorm.DB
}

func (r *claimItemRepository) Insert(ctx context.Context, item domain.ClaimItemRecord) error {
	rec := claimItemModel{
		ClaimID:  item.ClaimID,
		Sequence: item.Sequence,
		Status:   item.Status,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *claimItemRepository) Status(ctx context.Context, claimID string, sequence int) (string, error) {
	var rec claimItemModel
	err := r.db.WithContext(ctx).Select("status").
		Where("claim_id = ? AND sequence = ?", claimID, sequence).Take(&rec).Error
	if err != nil {
		return "", mapNotFound(err)
	}
	return rec.Status, nil
}

func (r *claimItemRepository) Reassign(ctx context.Context, priorClaimID string, sequence int, newClaimID, status string) error {
	res := r.db.WithContext(ctx).Model(&claimItemModel{}).
		Where("claim_id = ? AND sequence = ?", priorClaimID, sequence).
		Updates(map[string]any{"claim_id": newClaimID, "status": status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *claimItemRepository) CancelAll(ctx context.Context, claimID string) error {
	return r.db.WithContext(ctx).Model(&claimItemModel{}).
		Where("claim_id = ?", claimID).
		Update("status", domain.ClaimStatusCancelled).Error
}
