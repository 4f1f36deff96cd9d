package postgres

import (
	"context"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"gorm.io/gorm"
)

type claimResponseRepository struct {
	db *gorm.DB
}

func (r *claimResponseRepository) Create(ctx context.Context, response domain.ClaimResponseRecord) error {
	rec := claimResponseModel{
		ID:        response.ID,
		ClaimID:   response.ClaimID,
		Patient:   response.Patient,
		Status:    response.Status,
		Resource:  string(response.Resource),
		CreatedAt: response.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *claimResponseRepository) Get(ctx context.Context, id, patient string) (domain.ClaimResponseRecord, error) {
	var rec claimResponseModel
	err := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Take(&rec).Error
	if err != nil {
		return domain.ClaimResponseRecord{}, mapNotFound(err)
	}
	return domain.ClaimResponseRecord{
		ID:        rec.ID,
		ClaimID:   rec.ClaimID,
		Patient:   rec.Patient,
		Status:    rec.Status,
		Resource:  []byte(rec.Resource),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *claimResponseRepository) Delete(ctx context.Context, id, patient string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Delete(&claimResponseModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
