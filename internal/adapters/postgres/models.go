package postgres

import (
	"time"
)

type claimModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Patient   string    `gorm:"column:patient"`
	Status    string    `gorm:"column:status"`
	Related   *string   `gorm:"column:related"`
	Resource  string    `gorm:"column:resource;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (claimModel) TableName() string { return "claims" }

type claimItemModel struct {
	ClaimID  string `gorm:"column:claim_id;primaryKey"`
	Sequence int    `gorm:"column:sequence;primaryKey"`
	Status   string `gorm:"column:status"`
}

func (claimItemModel) TableName() string { return "claim_items" }

type bundleModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Patient   string    `gorm:"column:patient"`
	Resource  string    `gorm:"column:resource;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (bundleModel) TableName() string { return "bundles" }

type claimResponseModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ClaimID   string    `gorm:"column:claim_id"`
	Patient   string    `gorm:"column:patient"`
	Status    string    `gorm:"column:status"`
	Resource  string    `gorm:"column:resource;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (claimResponseModel) TableName() string { return "claim_responses" }

type subscriptionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ClaimID     string    `gorm:"column:claim_id"`
	Patient     string    `gorm:"column:patient"`
	ChannelType string    `gorm:"column:channel_type"`
	Endpoint    string    `gorm:"column:endpoint"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }
