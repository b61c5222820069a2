package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is one row per account; a plan change rewrites it in place.
type Subscription struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Plan       string             `gorm:"default:free;index"`
	Status     SubscriptionStatus `gorm:"default:active;index"`
	StartsAt   int64              `gorm:"not null"`
	RenewsAt   *int64
	CanceledAt *int64

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
