package postgres

import (
	"github.com/Tubbz-alt/prior-auth/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Claims        ports.ClaimRepository
	Items         ports.ClaimItemRepository
	Bundles       ports.BundleRepository
	Responses     ports.ClaimResponseRepository
	Subscriptions ports.SubscriptionRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Claims:        &claimRepository{db: db},
		Items:         &claimItemRepository{db: db},
		Bundles:       &bundleRepository{db: db},
		Responses:     &claimResponseRepository{db: db},
		Subscriptions: &subscriptionRepository{db: db},
	}
}
