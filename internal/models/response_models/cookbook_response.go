package response_models

import (
	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/subscription"
)

type CookbookResponse struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Theme       string   `json:"theme"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPremium   bool     `json:"is_premium"`
	IsFeatured  bool     `json:"is_featured"`
	MealCount   int      `json:"meal_count"`
	HasAccess   bool     `json:"has_access"`
}

func NewCookbookResponse(cb cookbook.Cookbook, hasAccess bool) CookbookResponse {
	return CookbookResponse{
		Slug:        cb.Slug,
		Name:        cb.Name,
		Theme:       cb.Theme,
		Description: cb.Description,
		Category:    string(cb.Category),
		Tags:        cb.Tags,
		IsPremium:   cb.Premium,
		IsFeatured:  cb.Featured,
		MealCount:   cb.MealCount,
		HasAccess:   hasAccess,
	}
}

type CookbookListResponse struct {
	Plan      subscription.Plan  `json:"plan"`
	Cookbooks []CookbookResponse `json:"cookbooks"`
}

type RecommendationResponse struct {
	Assigned []CookbookResponse      `json:"assigned"`
	Ranking  []recommendation.Ranked `json:"ranking"`
}

type CookbookDetailResponse struct {
	CookbookResponse
	Meals []mealplan.Meal `json:"meals"`
}
