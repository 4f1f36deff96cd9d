package postgres

import (
	"context"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"gorm.io/gorm"
)

type bundleRepository struct {
	db *gorm.DB
}

func (r *bundleRepository) Create(ctx context.Context, bundle domain.BundleRecord) error {
	rec := bundleModel{
		ID:        bundle.ID,
		Patient:   bundle.Patient,
		Resource:  string(bundle.Resource),
		CreatedAt: bundle.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *bundleRepository) Get(ctx context.Context, id, patient string) (domain.BundleRecord, error) {
	var rec bundleModel
	err := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Take(&rec).Error
	if err != nil {
		return domain.BundleRecord{}, mapNotFound(err)
	}
	return domain.BundleRecord{
		ID:        rec.ID,
		Patient:   rec.Patient,
		Resource:  []byte(rec.Resource),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *bundleRepository) Delete(ctx context.Context, id, patient string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND patient = ?", id, patient).Delete(&bundleModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
