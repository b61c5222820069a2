package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// QuestionnaireResponse holds the primary respondent's answers. Household
// logistics are lifted into columns; everything else stays in Responses.
type QuestionnaireResponse struct {
	BaseModel
	AccountID     uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	AccountType   string
	HouseholdSize int

	Region           string
	CookingSkill     string
	BreakfastTime    string
	LunchTime        string
	DinnerTime       string
	KitchenEquipment pq.StringArray `gorm:"type:text[]"`
	CookingStyle     string
	MealsPerDay      string
	ShoppingPlaces   pq.StringArray `gorm:"type:text[]"`
	GroceryBudget    string

	Responses     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CookbookSlugs pq.StringArray `gorm:"type:text[]"`

	Members []FamilyMember `gorm:"foreignKey:QuestionnaireResponseID;constraint:OnDelete:CASCADE"`
}

type FamilyMember struct {
	BaseModel
	QuestionnaireResponseID uuid.UUID `gorm:"type:uuid;index"`
	Position                int
	MemberKey               string
	Name                    string

	Age             *int
	Sex             string
	Height          datatypes.JSON `gorm:"type:jsonb"`
	WeightLbs       *int
	TargetWeightLbs *int

	HealthGoals      pq.StringArray `gorm:"type:text[]"`
	Allergies        pq.StringArray `gorm:"type:text[]"`
	Intolerances     pq.StringArray `gorm:"type:text[]"`
	Diet             string
	FavoriteCuisines pq.StringArray `gorm:"type:text[]"`

	Responses datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
