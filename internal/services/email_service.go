package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/pkg/utils"
)

const (
	EmailWelcome               = "welcome"
	EmailPaymentFailure        = "payment_failure"
	EmailWeeklyMealPlan        = "weekly_meal_plan"
	EmailSubscriptionUpgrade   = "subscription_upgrade"
	EmailSubscriptionDowngrade = "subscription_downgrade"
	EmailRenewalReminder       = "subscription_renewal_reminder"
	EmailMealRatingReminder    = "meal_rating_reminder"
	EmailPasswordReset         = "password_reset"
)

type EmailServiceInterface interface {
	// Send validates the request for its type, composes the mail and delivers it.
	Send(ctx context.Context, request request_models.SendEmailRequest) error
}

type EmailService struct {
	mail     IMailService
	composer *MailComposer
	metrics  *Metrics
	log      *zap.Logger
}

func NewEmailService(mail IMailService, composer *MailComposer, metrics *Metrics, log *zap.Logger) EmailServiceInterface {
	return &EmailService{mail: mail, composer: composer, metrics: metrics, log: log}
}

func missing(field, kind string) error {
	return fmt.Errorf("%w: %s is required for %s emails", utils.ErrMissingField, field, kind)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate reads the date formats clients send: RFC 3339 or a bare calendar date.
func parseDate(field, kind, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, missing(field, kind)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be a date", utils.ErrMissingField, field)
}

func (e *EmailService) compose(r request_models.SendEmailRequest) (Mail, error) {
	if r.Type == "" || r.Email == "" || r.Name == "" {
		return Mail{}, fmt.Errorf("%w: Missing required fields: type, email, name", utils.ErrMissingField)
	}

	switch r.Type {
	case EmailWelcome:
		return e.composer.Welcome(r.Email, r.Name, r.AccountType), nil

	case EmailPaymentFailure:
		end, err := parseDate("gracePeriodEnd", r.Type, r.GracePeriodEnd)
		if err != nil {
			return Mail{}, err
		}
		return e.composer.PaymentFailure(r.Email, r.Name, PaymentFailure{
			GracePeriodEnd: end,
			Amount:         r.Amount,
			LastFour:       r.LastFourDigits,
			Reason:         r.FailureReason,
		}), nil

	case EmailWeeklyMealPlan:
		start, err := parseDate("weekStartDate", r.Type, r.WeekStartDate)
		if err != nil {
			return Mail{}, err
		}
		previews := make([]MealPreview, len(r.MealPreviews))
		for i, p := range r.MealPreviews {
			previews[i] = MealPreview{Name: p.Name, Category: p.Category, Calories: p.Calories, PrepMinutes: p.PrepTime}
		}
		return e.composer.WeeklyMealPlan(r.Email, r.Name, WeeklyMealPlan{
			WeekStart:     start,
			Previews:      previews,
			TotalCalories: r.TotalCalories,
			TotalPrepMins: r.TotalPrepTime,
		}), nil

	case EmailSubscriptionUpgrade:
		return e.composer.SubscriptionUpgrade(r.Email, r.Name, r.Amount), nil

	case EmailSubscriptionDowngrade:
		return e.composer.SubscriptionDowngrade(r.Email, r.Name, r.Reason), nil

	case EmailRenewalReminder:
		date, err := parseDate("renewalDate", r.Type, r.RenewalDate)
		if err != nil {
			return Mail{}, err
		}
		return e.composer.RenewalReminder(r.Email, r.Name, RenewalReminder{
			RenewalDate: date,
			Amount:      r.RenewalAmount,
			LastFour:    r.RenewalLastFourDigits,
		}), nil

	case EmailMealRatingReminder:
		if r.UnratedMealsCount <= 0 {
			return Mail{}, missing("unratedMealsCount", r.Type)
		}
		return e.composer.MealRatingReminder(r.Email, r.Name, r.UnratedMealsCount), nil

	case EmailPasswordReset:
		if r.ResetToken == "" {
			return Mail{}, missing("resetToken", r.Type)
		}
		return e.composer.PasswordReset(r.Email, r.Name, r.ResetToken, r.ExpiresInHours), nil
	}

	return Mail{}, utils.ErrInvalidEmailType
}

func (e *EmailService) Send(ctx context.Context, request request_models.SendEmailRequest) error {
	mail, err := e.compose(request)
	if err != nil {
		return err
	}

	err = e.mail.Send(ctx, mail)
	e.metrics.Mail(request.Type, err)
	if err != nil {
		e.log.Error("send email", zap.String("type", request.Type), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrMailDelivery, err)
	}
	return nil
}
