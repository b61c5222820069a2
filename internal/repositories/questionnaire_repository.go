package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fullgorilla/internal/models/db_models"
)

type QuestionnaireRepository interface {
	// SaveCompleted replaces the account's stored answers, upserts the
	// assigned cookbooks, grants access to them and flags the account, all in
	// one transaction.
	SaveCompleted(ctx context.Context, resp *db_models.QuestionnaireResponse, assigned []db_models.Cookbook) error
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.QuestionnaireResponse, error)
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) SaveCompleted(ctx context.Context, resp *db_models.QuestionnaireResponse, assigned []db_models.Cookbook) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []uuid.UUID
		if err := tx.Model(&db_models.QuestionnaireResponse{}).
			Where("account_id = ?", resp.AccountID).
			Pluck("id", &previous).Error; err != nil {
			return err
		}
		if len(previous) > 0 {
			if err := tx.Unscoped().Where("questionnaire_response_id IN ?", previous).Delete(&db_models.FamilyMember{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", previous).Delete(&db_models.QuestionnaireResponse{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(resp).Error; err != nil {
			return err
		}

		if err := upsertCookbooks(tx, assigned); err != nil {
			return err
		}

		now := time.Now().Unix()
		for _, cb := range assigned {
			grant := db_models.UserCookbookAccess{
				AccountID:  resp.AccountID,
				CookbookID: cb.ID,
				Source:     db_models.AccessSourceQuestionnaire,
				GrantedAt:  now,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
				return err
			}
		}

		return tx.Model(&db_models.Account{}).
			Where("id = ?", resp.AccountID).
			Updates(map[string]any{
				"questionnaire_completed": true,
				"account_type":            resp.AccountType,
			}).Error
	})
}

func (r *questionnaireRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.QuestionnaireResponse, error) {
	var resp db_models.QuestionnaireResponse
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&resp, "account_id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}
