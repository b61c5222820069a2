package subscription

import (
	"fmt"
	"strings"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

type Access string

const (
	AccessLimited   Access = "limited"
	AccessUnlimited Access = "unlimited"
)

// ParsePlan accepts plan names case-insensitively. Unknown or empty plans are
// treated as free.
func ParsePlan(s string) Plan {
	if Plan(strings.ToLower(strings.TrimSpace(s))) == PlanPro {
		return PlanPro
	}
	return PlanFree
}

func (p Plan) Valid() bool { return p == PlanFree || p == PlanPro }

type Features struct {
	WeeksPerMonth     int    `json:"weeks_per_month"`
	CookbookAccess    Access `json:"cookbook_access"`
	TotalMeals        int    `json:"total_meals_available"`
	PremiumCookbooks  bool   `json:"can_access_premium_cookbooks"`
	CookbooksUnlocked int    `json:"cookbooks_unlocked"`
}

func FeaturesFor(p Plan) Features {
	if p == PlanPro {
		return Features{
			WeeksPerMonth:     Unlimited,
			CookbookAccess:    AccessUnlimited,
			TotalMeals:        2250,
			PremiumCookbooks:  true,
			CookbooksUnlocked: 25,
		}
	}
	return Features{
		WeeksPerMonth:     1,
		CookbookAccess:    AccessLimited,
		TotalMeals:        48,
		PremiumCookbooks:  false,
		CookbooksUnlocked: 4,
	}
}

// CanAccessCookbook is the tier check alone; free users additionally need an
// access grant for the specific cookbook.
func CanAccessCookbook(p Plan, premium bool) bool {
	if p == PlanPro {
		return true
	}
	return !premium
}

// HasAccess combines the plan with the account's per-cookbook grants.
func HasAccess(p Plan, granted bool) bool {
	return p == PlanPro || granted
}

// RemainingWeeks returns Unlimited for plans without a weekly cap.
func RemainingWeeks(p Plan, usedThisMonth int) int {
	f := FeaturesFor(p)
	if f.WeeksPerMonth == Unlimited {
		return Unlimited
	}
	return max(0, f.WeeksPerMonth-usedThisMonth)
}

func ShouldShowUpgradePrompt(p Plan) bool {
	return p != PlanPro
}

func UpgradeMessage(p Plan) string {
	if p == PlanPro {
		return ""
	}
	pro := FeaturesFor(PlanPro)
	return fmt.Sprintf("Upgrade to Pro for unlimited weekly meal plans and access to all %s recipes across %d cookbooks!",
		FormatCount(pro.TotalMeals), pro.CookbooksUnlocked)
}

// FormatCount groups digits in threes, e.g. 2250 becomes "2,250".
func FormatCount(n int) string {
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
