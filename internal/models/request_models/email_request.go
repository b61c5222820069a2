package request_models

type EmailMealPreview struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Calories int    `json:"calories"`
	PrepTime int    `json:"prepTime"`
}

// SendEmailRequest is the body of POST /emails/send. Type selects which of
// the optional fields are read.
type SendEmailRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Name  string `json:"name"`

	AccountType string `json:"accountType"`

	GracePeriodEnd string `json:"gracePeriodEnd"`
	Amount         int    `json:"amount"`
	LastFourDigits string `json:"lastFourDigits"`
	FailureReason  string `json:"failureReason"`

	WeekStartDate string             `json:"weekStartDate"`
	MealPreviews  []EmailMealPreview `json:"mealPreviews"`
	TotalCalories int                `json:"totalCalories"`
	TotalPrepTime int                `json:"totalPrepTime"`

	Reason string `json:"reason"`

	RenewalDate           string `json:"renewalDate"`
	RenewalAmount         int    `json:"renewalAmount"`
	RenewalLastFourDigits string `json:"renewalLastFourDigits"`

	UnratedMealsCount int `json:"unratedMealsCount"`

	ResetToken     string `json:"resetToken"`
	ExpiresInHours int    `json:"expiresInHours"`
}
