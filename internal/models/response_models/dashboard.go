package response_models

import (
	"time"

	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/subscription"
)

type MealPlanResponse struct {
	Plan           subscription.Plan     `json:"plan"`
	Features       subscription.Features `json:"features"`
	UpgradeMessage string                `json:"upgrade_message,omitempty"`
	Cookbooks      []string              `json:"cookbooks"`
	Restrictions   []string              `json:"restrictions"`
	UnratedMeals   int                   `json:"unrated_meals"`
	MealPlan       mealplan.WeeklyPlan   `json:"meal_plan"`
}

type MealRatingResponse struct {
	MealID    int    `json:"meal_id"`
	MealName  string `json:"meal_name,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

type PagedResponse[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

type TimeRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Interval string    `json:"interval"`
	Timezone string    `json:"timezone,omitempty"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type KPIBlock struct {
	TotalAccounts          int64   `json:"total_accounts"`
	NewAccounts            int64   `json:"new_accounts"`
	QuestionnairesDone     int64   `json:"questionnaires_completed"`
	CompletionPct          float64 `json:"completion_pct"`
	ActiveSubscriptions    int64   `json:"active_subscriptions"`
	PastDueSubscriptions   int64   `json:"past_due_subscriptions"`
	CanceledSubscriptions  int64   `json:"canceled_subscriptions"`
	ProSubscribers         int64   `json:"pro_subscribers"`
	MonthlyRevenueEstimate float64 `json:"monthly_revenue_estimate"`
	AverageMealRating      float64 `json:"average_meal_rating"`
}

type PlanMixItem struct {
	Plan    string  `json:"plan"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type TopCookbook struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Grants int64  `json:"grants"`
}

type DashboardReport struct {
	Range        TimeRange     `json:"range"`
	KPIs         KPIBlock      `json:"kpis"`
	NewUsers     []SeriesPoint `json:"new_users"`
	Completions  []SeriesPoint `json:"completions"`
	PlanMix      []PlanMixItem `json:"plan_mix"`
	TopCookbooks []TopCookbook `json:"top_cookbooks"`
}
