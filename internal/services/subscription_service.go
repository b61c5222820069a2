package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fullgorilla/internal/infra"
	dbm "fullgorilla/internal/models/db_models"
	resp "fullgorilla/internal/models/response_models"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/subscription"
	"fullgorilla/pkg/utils"
)

// billingPeriod is how far a pro renewal date sits from the upgrade.
const billingPeriod = 30 * 24 * time.Hour

type SubscriptionServiceInterface interface {
	Get(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error)
	Upgrade(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error)
	Downgrade(ctx context.Context, accountID uuid.UUID, reason string) (*resp.SubscriptionResponse, error)
}

type SubscriptionService struct {
	accountRepo repositories.AccountRepository
	subRepo     repositories.SubscriptionRepository
	mail        IMailService
	composer    *MailComposer
	metrics     *Metrics
	proPrice    int
	now         func() time.Time
	log         *zap.Logger
}

func NewSubscriptionService(
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	mail IMailService,
	composer *MailComposer,
	metrics *Metrics,
	cfg infra.Config,
	log *zap.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		accountRepo: accountRepo,
		subRepo:     subRepo,
		mail:        mail,
		composer:    composer,
		metrics:     metrics,
		proPrice:    cfg.ProPriceUSD,
		now:         time.Now,
		log:         log,
	}
}

func subscriptionResponse(sub *dbm.Subscription) *resp.SubscriptionResponse {
	plan := planOf(sub)
	out := &resp.SubscriptionResponse{
		Plan:              plan,
		Status:            string(dbm.SubStatusActive),
		Features:          subscription.FeaturesFor(plan),
		ShowUpgradePrompt: subscription.ShouldShowUpgradePrompt(plan),
		UpgradeMessage:    subscription.UpgradeMessage(plan),
	}
	if sub != nil {
		out.Status = string(sub.Status)
		out.StartsAt = sub.StartsAt
		out.RenewsAt = sub.RenewsAt
		out.CanceledAt = sub.CanceledAt
	}
	return out
}

func (s *SubscriptionService) Get(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return subscriptionResponse(sub), nil
}

// current loads the account with a subscription row, creating an unsaved
// free row when none exists yet.
func (s *SubscriptionService) current(ctx context.Context, accountID uuid.UUID) (*dbm.Account, *dbm.Subscription, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, nil, utils.ErrAccountNotFound
	}
	sub := account.Subscription
	if sub == nil {
		sub = &dbm.Subscription{
			AccountID: accountID,
			Plan:      string(subscription.PlanFree),
			Status:    dbm.SubStatusActive,
			StartsAt:  s.now().Unix(),
		}
	}
	return account, sub, nil
}

func (s *SubscriptionService) save(ctx context.Context, account *dbm.Account, sub *dbm.Subscription) error {
	if err := s.subRepo.Save(ctx, sub); err != nil {
		s.log.Error("save subscription", zap.String("account_id", account.ID.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	s.metrics.PlanChanged(sub.Plan)
	return nil
}

func (s *SubscriptionService) notify(ctx context.Context, kind string, account *dbm.Account, mail Mail) {
	err := s.mail.Send(ctx, mail)
	s.metrics.Mail(kind, err)
	if err != nil {
		s.log.Warn("subscription mail failed", zap.String("type", kind), zap.String("account_id", account.ID.String()), zap.Error(err))
	}
}

func (s *SubscriptionService) Upgrade(ctx context.Context, accountID uuid.UUID) (*resp.SubscriptionResponse, error) {
	account, sub, err := s.current(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if planOf(sub) == subscription.PlanPro && sub.Status == dbm.SubStatusActive {
		return nil, utils.ErrPlanUnchanged
	}

	now := s.now()
	renews := now.Add(billingPeriod).Unix()
	sub.Plan = string(subscription.PlanPro)
	sub.Status = dbm.SubStatusActive
	sub.StartsAt = now.Unix()
	sub.RenewsAt = &renews
	sub.CanceledAt = nil
	if err := s.save(ctx, account, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription upgraded", zap.String("account_id", account.ID.String()))
	s.notify(ctx, EmailSubscriptionUpgrade, account, s.composer.SubscriptionUpgrade(account.Email, account.Name, s.proPrice))
	return subscriptionResponse(sub), nil
}

func (s *SubscriptionService) Downgrade(ctx context.Context, accountID uuid.UUID, reason string) (*resp.SubscriptionResponse, error) {
	account, sub, err := s.current(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if planOf(sub) == subscription.PlanFree {
		return nil, utils.ErrPlanUnchanged
	}

	canceled := s.now().Unix()
	sub.Plan = string(subscription.PlanFree)
	sub.Status = dbm.SubStatusActive
	sub.RenewsAt = nil
	sub.CanceledAt = &canceled
	if reason != "" {
		meta, err := jsonOf(map[string]string{"downgrade_reason": reason})
		if err != nil {
			return nil, err
		}
		sub.Metadata = meta
	}
	if err := s.save(ctx, account, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription downgraded", zap.String("account_id", account.ID.String()), zap.String("reason", reason))
	s.notify(ctx, EmailSubscriptionDowngrade, account, s.composer.SubscriptionDowngrade(account.Email, account.Name, reason))
	return subscriptionResponse(sub), nil
}
