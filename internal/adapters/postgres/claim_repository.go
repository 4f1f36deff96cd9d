package postgres

import (
	"context"
	"errors"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"gorm.io/gorm"
)

type claimRepository struct {
	db *gorm.DB
}

// CreateWithItems writes a claim version and its fresh line items in one
// transaction so a crash cannot leave a claim without its items.
func (r *claimRepository) CreateWithItems(ctx context.Context, claim domain.ClaimRecord, items []domain.ClaimItemRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toClaimModel(claim)).Error; err != nil {
			return err
		}
		for _, item := range items {
			rec := claimItemModel{
				ClaimID:  item.ClaimID,
				Sequence: item.Sequence,
				Status:   item.Status,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *claimRepository) Get(ctx context.Context, id, patient string) (domain.ClaimRecord, error) {
	var rec claimModel
	err := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Take(&rec).Error
	if err != nil {
		return domain.ClaimRecord{}, mapNotFound(err)
	}
	return toDomainClaim(rec), nil
}

func (r *claimRepository) GetByID(ctx context.Context, id string) (domain.ClaimRecord, error) {
	var rec claimModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return domain.ClaimRecord{}, mapNotFound(err)
	}
	return toDomainClaim(rec), nil
}

func (r *claimRepository) Status(ctx context.Context, id string) (string, error) {
	var rec claimModel
	if err := r.db.WithContext(ctx).Select("status").Where("id = ?", id).Take(&rec).Error; err != nil {
		return "", mapNotFound(err)
	}
	return rec.Status, nil
}

func (r *claimRepository) Related(ctx context.Context, id string) (*string, error) {
	var rec claimModel
	if err := r.db.WithContext(ctx).Select("related").Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return rec.Related, nil
}

func (r *claimRepository) FindByRelated(ctx context.Context, id string) (domain.ClaimRecord, error) {
	var rec claimModel
	if err := r.db.WithContext(ctx).Where("related = ?", id).Take(&rec).Error; err != nil {
		return domain.ClaimRecord{}, mapNotFound(err)
	}
	return toDomainClaim(rec), nil
}

func (r *claimRepository) UpdateStatus(ctx context.Context, id, status string, resource []byte) error {
	fields := map[string]any{"status": status}
	if resource != nil {
		fields["resource"] = string(resource)
	}
	res := r.db.WithContext(ctx).Model(&claimModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *claimRepository) Delete(ctx context.Context, id, patient string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Delete(&claimModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
