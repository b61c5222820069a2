package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/mealplan"
	dbm "fullgorilla/internal/models/db_models"
	"fullgorilla/internal/repositories"
	"fullgorilla/pkg/utils"
)

type WeeklyMailSummary struct {
	Accounts int   `json:"accounts"`
	Sent     int64 `json:"sent"`
	Failed   int64 `json:"failed"`
}

type WeeklyMailServiceInterface interface {
	// SendWeekly mails the plan for the week containing weekOf to every
	// account that completed the questionnaire. One account failing does
	// not stop the others.
	SendWeekly(ctx context.Context, weekOf time.Time) (*WeeklyMailSummary, error)
}

type WeeklyMailService struct {
	accountRepo repositories.AccountRepository
	dashboard   DashboardServiceInterface
	library     *mealplan.Library
	mail        IMailService
	composer    *MailComposer
	metrics     *Metrics
	concurrency int
	log         *zap.Logger
}

func NewWeeklyMailService(
	accountRepo repositories.AccountRepository,
	dashboard DashboardServiceInterface,
	library *mealplan.Library,
	mail IMailService,
	composer *MailComposer,
	metrics *Metrics,
	cfg infra.Config,
	log *zap.Logger,
) WeeklyMailServiceInterface {
	return &WeeklyMailService{
		accountRepo: accountRepo,
		dashboard:   dashboard,
		library:     library,
		mail:        mail,
		composer:    composer,
		metrics:     metrics,
		concurrency: max(1, cfg.WeeklyMailConcurrency),
		log:         log,
	}
}

func (w *WeeklyMailService) SendWeekly(ctx context.Context, weekOf time.Time) (*WeeklyMailSummary, error) {
	accounts, err := w.accountRepo.ListQuestionnaireCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	summary := &WeeklyMailSummary{Accounts: len(accounts)}
	var sent, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, account := range accounts {
		g.Go(func() error {
			if err := w.sendOne(gctx, account, weekOf); err != nil {
				failed.Add(1)
				w.log.Warn("weekly plan mail failed", zap.String("account_id", account.ID.String()), zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	// Workers swallow per-account errors; Wait only reports cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary.Sent, summary.Failed = sent.Load(), failed.Load()
	w.log.Info("weekly plan mails done",
		zap.Int("accounts", summary.Accounts),
		zap.Int64("sent", summary.Sent),
		zap.Int64("failed", summary.Failed),
	)
	return summary, nil
}

func (w *WeeklyMailService) sendOne(ctx context.Context, account dbm.Account, weekOf time.Time) error {
	plan, err := w.dashboard.MealPlan(ctx, account.ID, weekOf)
	if err != nil {
		return err
	}

	weekly := WeeklyMealPlan{TotalCalories: plan.MealPlan.Nutrition.Calories}
	weekly.WeekStart, _ = time.Parse(time.DateOnly, plan.MealPlan.WeekOf)
	for _, day := range plan.MealPlan.Days {
		for _, slot := range []mealplan.Slot{day.Breakfast, day.Lunch, day.Dinner} {
			meal, ok := w.library.Meal(slot.ID)
			if !ok {
				continue
			}
			weekly.TotalPrepMins += meal.PrepMinutes
			weekly.Previews = append(weekly.Previews, MealPreview{
				Name:        meal.Name,
				Category:    string(meal.Category),
				Calories:    meal.Calories,
				PrepMinutes: meal.PrepMinutes,
			})
		}
	}

	err = w.mail.Send(ctx, w.composer.WeeklyMealPlan(account.Email, account.Name, weekly))
	w.metrics.Mail(EmailWeeklyMealPlan, err)
	return err
}
