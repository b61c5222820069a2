package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fullgorilla/internal/models/db_models"
)

type AccountRepository interface {
	// CreateWithSubscription stores the account together with its initial subscription row.
	CreateWithSubscription(ctx context.Context, account *db_models.Account, sub *db_models.Subscription) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListQuestionnaireCompleted(ctx context.Context) ([]db_models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) CreateWithSubscription(ctx context.Context, account *db_models.Account, sub *db_models.Subscription) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		sub.AccountID = account.ID
		return tx.Create(sub).Error
	})
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Preload("Subscription").First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Preload("Subscription").First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := a.db.WithContext(ctx).Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *accountRepository) ListQuestionnaireCompleted(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Preload("Subscription").
		Where("questionnaire_completed = ?", true).
		Order("created_at").
		Find(&accounts).Error
	return accounts, err
}
