package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fullgorilla/internal/models/db_models"
)

type SubscriptionRepository interface {
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	Save(ctx context.Context, sub *db_models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "account_id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Save inserts sub when it has no id yet and updates every column otherwise.
func (r *subscriptionRepository) Save(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
