package response_models

import "fullgorilla/internal/subscription"

type SubscriptionResponse struct {
	Plan              subscription.Plan     `json:"plan"`
	Status            string                `json:"status"`
	StartsAt          int64                 `json:"starts_at"`
	RenewsAt          *int64                `json:"renews_at,omitempty"`
	CanceledAt        *int64                `json:"canceled_at,omitempty"`
	Features          subscription.Features `json:"features"`
	ShowUpgradePrompt bool                  `json:"show_upgrade_prompt"`
	UpgradeMessage    string                `json:"upgrade_message,omitempty"`
}
