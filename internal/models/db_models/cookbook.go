package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Cookbook struct {
	BaseModel
	Slug        string `gorm:"uniqueIndex"`
	Name        string
	Theme       string
	Description string
	Category    string         `gorm:"index"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsPremium   bool
	IsFeatured  bool
	MealCount   int
}

const AccessSourceQuestionnaire = "questionnaire"

type UserCookbookAccess struct {
	BaseModel
	AccountID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_account_cookbook"`
	CookbookID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_account_cookbook"`
	Source     string
	GrantedAt  int64

	Cookbook Cookbook `gorm:"foreignKey:CookbookID"`
}

type MealRating struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_account_meal"`
	MealID    int       `gorm:"uniqueIndex:idx_account_meal"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"type:text"`
}
