package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fullgorilla/internal/models/db_models"
)

type MealRatingRepository interface {
	Upsert(ctx context.Context, rating *db_models.MealRating) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.MealRating, int64, error)
	RatedMealIDs(ctx context.Context, accountID uuid.UUID) ([]int, error)
}

type mealRatingRepository struct {
	db *gorm.DB
}

func NewMealRatingRepository(db *gorm.DB) MealRatingRepository {
	return &mealRatingRepository{db: db}
}

func (r *mealRatingRepository) Upsert(ctx context.Context, rating *db_models.MealRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "meal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(rating).Error
}

func (r *mealRatingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.MealRating, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.MealRating{}).Where("account_id = ?", accountID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []db_models.MealRating
	err := q.Scopes(func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}).Order("updated_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *mealRatingRepository) RatedMealIDs(ctx context.Context, accountID uuid.UUID) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&db_models.MealRating{}).
		Where("account_id = ?", accountID).
		Pluck("meal_id", &ids).Error
	return ids, err
}
