package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/models/db_models"
)

type CookbookRepository interface {
	SeedCatalog(ctx context.Context, cookbooks []db_models.Cookbook) error
	GrantedSlugs(ctx context.Context, accountID uuid.UUID) ([]string, error)
	HasGrant(ctx context.Context, accountID uuid.UUID, slug string) (bool, error)
}

type cookbookRepository struct {
	db *gorm.DB
}

func NewCookbookRepository(db *gorm.DB) CookbookRepository {
	return &cookbookRepository{db: db}
}

// upsertCookbooks writes catalog rows keyed by slug and sets each entry's ID
// to the stored row's id.
func upsertCookbooks(tx *gorm.DB, cookbooks []db_models.Cookbook) error {
	if len(cookbooks) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "theme", "description", "category", "tags", "is_premium", "is_featured", "meal_count", "updated_at"}),
	}).Create(&cookbooks).Error
	if err != nil {
		return err
	}

	slugs := make([]string, len(cookbooks))
	for i, cb := range cookbooks {
		slugs[i] = cb.Slug
	}
	var stored []db_models.Cookbook
	if err := tx.Select("id", "slug").Where("slug IN ?", slugs).Find(&stored).Error; err != nil {
		return err
	}
	ids := make(map[string]uuid.UUID, len(stored))
	for _, cb := range stored {
		ids[cb.Slug] = cb.ID
	}
	for i := range cookbooks {
		cookbooks[i].ID = ids[cookbooks[i].Slug]
	}
	return nil
}

func (r *cookbookRepository) SeedCatalog(ctx context.Context, cookbooks []db_models.Cookbook) error {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return tx.Error
	}
	return infra.ReleaseTransaction(tx, upsertCookbooks(tx, cookbooks))
}

func (r *cookbookRepository) GrantedSlugs(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Table("user_cookbook_accesses AS a").
		Joins("JOIN cookbooks c ON c.id = a.cookbook_id").
		Where("a.account_id = ? AND a.deleted_at IS NULL", accountID).
		Order("a.created_at").
		Pluck("c.slug", &slugs).Error
	return slugs, err
}

func (r *cookbookRepository) HasGrant(ctx context.Context, accountID uuid.UUID, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("user_cookbook_accesses AS a").
		Joins("JOIN cookbooks c ON c.id = a.cookbook_id").
		Where("a.account_id = ? AND c.slug = ? AND a.deleted_at IS NULL", accountID, slug).
		Count(&n).Error
	return n > 0, err
}
