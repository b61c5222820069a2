package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"fullgorilla/internal/subscription"
	"fullgorilla/pkg/utils"
)

const appName = "Full Gorilla Meal Planner"

// MailComposer turns domain events into Mail values. It never sends.
type MailComposer struct {
	BaseURL  string
	ProPrice int
	Now      func() time.Time
}

func NewMailComposer(baseURL string, proPrice int) *MailComposer {
	if proPrice <= 0 {
		proPrice = 20
	}
	return &MailComposer{BaseURL: strings.TrimRight(baseURL, "/"), ProPrice: proPrice, Now: time.Now}
}

func (m *MailComposer) data(title, name string) EmailData {
	greeting := ""
	if name != "" {
		greeting = fmt.Sprintf("Hi %s,", name)
	}
	return EmailData{Title: title, Greeting: greeting, AppName: appName, Year: m.Now().Year()}
}

func (m *MailComposer) link(path string) string { return m.BaseURL + path }

func accountTypeText(accountType string) string {
	switch accountType {
	case "family", "couple":
		return accountType
	default:
		return "individual"
	}
}

func weekday(t time.Time) string { return t.Weekday().String() }

func (m *MailComposer) Welcome(to, name, accountType string) Mail {
	free := subscription.FeaturesFor(subscription.PlanFree)
	pro := subscription.FeaturesFor(subscription.PlanPro)
	kind := accountTypeText(accountType)

	d := m.data("Welcome to Full Gorilla!", name)
	d.Intro = []string{
		"Welcome to the Full Gorilla Meal Planner family! We're thrilled to have you join our community of health-conscious eaters building better habits through personalized meal planning.",
	}
	d.Notice = fmt.Sprintf("Your %s account is active! You now have access to one full week of personalized meal planning per month.", kind)
	d.ListTitle = "What's Included in Your Free Account:"
	d.Items = []string{
		"One Full Week (Sunday-Saturday) of meal planning per month",
		fmt.Sprintf("%d Curated Recipes from %d themed cookbooks to choose from", free.TotalMeals, free.CookbooksUnlocked),
		"Intelligent Meal Selection matched to your goals",
		"Auto-Generated Grocery Lists organized by category",
		"Nutritional Information for every meal",
		fmt.Sprintf("Portion Adjustments customized for your %s needs", kind),
	}
	d.ButtonURL = m.link("/questionnaire")
	d.ButtonTxt = "Complete Your Profile Now →"
	d.Outro = []string{
		fmt.Sprintf("Upgrade to Pro for unlimited access to all %s recipes across %d themed cookbooks. Just $%d/month, upgrade anytime from your dashboard.",
			subscription.FormatCount(pro.TotalMeals), pro.CookbooksUnlocked, m.ProPrice),
		"Ready to transform your eating habits? Let's get started!",
	}
	d.SignOff = "Cheers,"
	d.FooterNote = "You're receiving this because you signed up for Full Gorilla Meal Planner."
	return Mail{To: to, Subject: "🎉 Welcome to Full Gorilla - Let's Build Healthy Habits Together!", Data: d}
}

type PaymentFailure struct {
	GracePeriodEnd time.Time
	Amount         int
	LastFour       string
	Reason         string
}

func (m *MailComposer) PaymentFailure(to, name string, p PaymentFailure) Mail {
	if p.Amount <= 0 {
		p.Amount = m.ProPrice
	}
	method := "your payment method"
	if p.LastFour != "" {
		method = "card ending in " + p.LastFour
	}
	date := utils.FormatLongDate(p.GracePeriodEnd)

	d := m.data("Full Gorilla Meal Planner", name)
	d.Intro = []string{fmt.Sprintf("We attempted to process your monthly subscription payment of $%d using %s, but the payment didn't go through.", p.Amount, method)}
	if p.Reason != "" {
		d.Intro = append(d.Intro, "Reason: "+p.Reason)
	}
	d.Notice = fmt.Sprintf("Your account is still active! You have until %s (3 days) to update your payment method.", date)
	d.ListTitle = "What Happens Next:"
	d.Items = []string{
		fmt.Sprintf("Now - %s: your Pro account remains fully active.", date),
		"Update your payment: add a new payment method or update your current one.",
		fmt.Sprintf("After %s: your account switches to the Free plan.", date),
	}
	d.ButtonURL = m.link("/dashboard?tab=billing")
	d.ButtonTxt = "Update Payment Method →"
	d.SignOff = "Keep crushing those health goals!"
	return Mail{To: to, Subject: "⚠️ Payment Update Needed - Action Required by " + weekday(p.GracePeriodEnd), Data: d}
}

type MealPreview struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Calories    int    `json:"calories"`
	PrepMinutes int    `json:"prepTime"`
}

type WeeklyMealPlan struct {
	WeekStart     time.Time
	Previews      []MealPreview
	TotalCalories int
	TotalPrepMins int
}

func (m *MailComposer) WeeklyMealPlan(to, name string, w WeeklyMealPlan) Mail {
	start := utils.FormatMonthDay(w.WeekStart)
	end := w.WeekStart.AddDate(0, 0, 6).Format("January 2")

	d := m.data("Your Weekly Meal Plan is Ready!", name)
	d.Intro = []string{fmt.Sprintf("Great news! Your personalized meal plan for %s - %s has been created and is ready for you.", start, end)}
	d.Notice = "Your weekly meal plan includes breakfast, lunch, and dinner for 7 days, all tailored to your preferences and dietary needs."
	if w.TotalCalories > 0 && w.TotalPrepMins > 0 {
		planned := len(w.Previews)
		if planned == 0 {
			planned = 21
		}
		d.Intro = append(d.Intro, fmt.Sprintf("%s total calories, about %d hours of cooking, %d meals planned.",
			subscription.FormatCount(w.TotalCalories), (w.TotalPrepMins+30)/60, planned))
	}
	if len(w.Previews) > 0 {
		d.ListTitle = "Meal Previews This Week:"
		for _, p := range w.Previews[:min(3, len(w.Previews))] {
			d.Items = append(d.Items, fmt.Sprintf("%s (%s) - %d calories, %d min prep time", p.Name, p.Category, p.Calories, p.PrepMinutes))
		}
		if extra := len(w.Previews) - 3; extra > 0 {
			d.Items = append(d.Items, fmt.Sprintf("...and %d more delicious meals!", extra))
		}
	}
	d.ButtonURL = m.link("/dashboard")
	d.ButtonTxt = "View Full Meal Plan →"
	d.Outro = []string{"On Saturday, we'll send you a review request. Meals rated 3+ stars stay in rotation, 2 stars or below are removed."}
	d.SignOff = "Let's make this week amazing!"
	return Mail{To: to, Subject: fmt.Sprintf("🍽️ Your Meal Plan is Ready for %s!", start), Data: d}
}

func (m *MailComposer) SubscriptionUpgrade(to, name string, amount int) Mail {
	if amount <= 0 {
		amount = m.ProPrice
	}
	pro := subscription.FeaturesFor(subscription.PlanPro)
	free := subscription.FeaturesFor(subscription.PlanFree)

	d := m.data("Welcome to Full Gorilla Pro!", name)
	d.Intro = []string{"Congratulations! You've upgraded to Pro!"}
	d.Notice = fmt.Sprintf("Your Pro subscription is now active! You've unlocked unlimited access to all %s recipes across %d cookbooks.",
		subscription.FormatCount(pro.TotalMeals), pro.CookbooksUnlocked)
	d.ListTitle = "Your Subscription Details:"
	d.Items = []string{
		fmt.Sprintf("%s Premium Recipes - up from %d!", subscription.FormatCount(pro.TotalMeals), free.TotalMeals),
		"Unlimited Weekly Meal Plans",
		"Plan: Full Gorilla Pro",
		fmt.Sprintf("Billing: $%d/month", amount),
		"Next Billing Date: " + utils.FormatMonthDay(m.Now().AddDate(0, 0, 30)),
		"Cancel Anytime: manage from your dashboard",
	}
	d.ButtonURL = m.link("/cookbooks")
	d.ButtonTxt = "Explore All Cookbooks →"
	d.SignOff = "Here's to your health journey!"
	return Mail{To: to, Subject: fmt.Sprintf("🎉 Welcome to Full Gorilla Pro - All %s Recipes Unlocked!", subscription.FormatCount(pro.TotalMeals)), Data: d}
}

const DefaultDowngradeReason = "payment failure after grace period"

func (m *MailComposer) SubscriptionDowngrade(to, name, reason string) Mail {
	if reason == "" {
		reason = DefaultDowngradeReason
	}
	free := subscription.FeaturesFor(subscription.PlanFree)
	pro := subscription.FeaturesFor(subscription.PlanPro)

	d := m.data("Full Gorilla Meal Planner", name)
	d.Intro = []string{fmt.Sprintf("Your Full Gorilla account has been switched to the Free Plan due to %s.", reason)}
	d.Notice = "Your account is still active! You now have access to the Free plan with one full week of meal planning per month."
	d.ListTitle = "You Still Get:"
	d.Items = []string{
		"One full week of personalized meal planning each month",
		fmt.Sprintf("%d delicious recipes from %d popular cookbooks", free.TotalMeals, free.CookbooksUnlocked),
		"Auto-generated grocery lists",
		"Your saved preferences and dietary restrictions",
	}
	d.ButtonURL = m.link("/dashboard?tab=billing")
	d.ButtonTxt = "Upgrade to Pro →"
	d.Outro = []string{fmt.Sprintf("Upgrade anytime to regain unlimited access to all %s recipes. Just $%d/month.", subscription.FormatCount(pro.TotalMeals), m.ProPrice)}
	d.SignOff = "Keep moving forward!"
	return Mail{To: to, Subject: "Your Full Gorilla Account - Now on Free Plan", Data: d}
}

type RenewalReminder struct {
	RenewalDate time.Time
	Amount      int
	LastFour    string
}

func (m *MailComposer) RenewalReminder(to, name string, r RenewalReminder) Mail {
	if r.Amount <= 0 {
		r.Amount = m.ProPrice
	}
	method := "your payment method on file"
	if r.LastFour != "" {
		method = "card ending in " + r.LastFour
	}
	date := utils.FormatLongDate(r.RenewalDate)

	d := m.data("Full Gorilla Meal Planner", name)
	d.Intro = []string{fmt.Sprintf("This is a friendly reminder that your Full Gorilla Pro subscription will automatically renew on %s.", date)}
	d.ListTitle = "Upcoming Charge Details:"
	d.Items = []string{
		fmt.Sprintf("Amount: $%d", r.Amount),
		"Date: " + date,
		"Payment Method: " + method,
		"Subscription: Full Gorilla Pro (Unlimited access)",
	}
	d.ButtonURL = m.link("/dashboard?tab=billing")
	d.ButtonTxt = "Manage Subscription →"
	d.SignOff = "Keep crushing it!"
	d.FooterNote = "This is an automated reminder for your upcoming subscription renewal."
	return Mail{To: to, Subject: "Reminder: Your Full Gorilla Pro Subscription Renews " + weekday(r.RenewalDate), Data: d}
}

func (m *MailComposer) MealRatingReminder(to, name string, unrated int) Mail {
	d := m.data("Help Us Learn What You Love!", name)
	d.Intro = []string{fmt.Sprintf("We noticed you have %d meals from your recent meal plans that haven't been rated yet.", unrated)}
	d.Notice = "Your ratings help us understand your taste preferences so we can recommend meals you'll love. It only takes 5 seconds per meal."
	d.ListTitle = "How Your Ratings Help:"
	d.Items = []string{
		"5 stars: we'll prioritize similar recipes",
		"4 stars: we'll include more recipes like this",
		"3 stars: we'll show these less often",
		"1-2 stars: we'll stop recommending similar meals",
	}
	d.ButtonURL = m.link("/dashboard")
	d.ButtonTxt = "Rate My Meals →"
	d.SignOff = "Thanks for helping us serve you better!"
	return Mail{To: to, Subject: "⭐ Rate Your Recent Meals - Help Us Improve Your Plan!", Data: d}
}

func (m *MailComposer) PasswordReset(to, name, token string, expiresInHours int) Mail {
	if expiresInHours <= 0 {
		expiresInHours = 24
	}
	d := m.data("Password Reset Request", name)
	d.Intro = []string{"We received a request to reset your Full Gorilla Meal Planner password."}
	d.Notice = fmt.Sprintf("This link expires in %d hours", expiresInHours)
	d.ButtonURL = m.link("/reset-password?token=" + url.QueryEscape(token))
	d.ButtonTxt = "Reset My Password →"
	d.Outro = []string{"If you didn't request a password reset, please ignore this email. Your password will remain unchanged and this link will expire automatically."}
	d.SignOff = "Stay secure!"
	d.FooterNote = "This password reset link expires on " + m.Now().Add(time.Duration(expiresInHours)*time.Hour).Format("1/2/2006, 3:04:05 PM")
	return Mail{To: to, Subject: "🔒 Reset Your Full Gorilla Password", Data: d}
}
