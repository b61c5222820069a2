package response_models

import "fullgorilla/internal/subscription"

type AccountLoginResponse struct {
	Token             string `json:"token"`
	IsUserHavePremium bool   `json:"is_user_have_premium"`
}

type AccountResponse struct {
	ID                     string                `json:"id"`
	Name                   string                `json:"name"`
	Email                  string                `json:"email"`
	Role                   string                `json:"role"`
	AccountType            string                `json:"account_type"`
	QuestionnaireCompleted bool                  `json:"questionnaire_completed"`
	Plan                   subscription.Plan     `json:"plan"`
	Features               subscription.Features `json:"features"`
}
