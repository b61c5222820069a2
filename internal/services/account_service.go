package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fullgorilla/internal/models/db_models"
	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/models/response_models"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/subscription"
	mem "fullgorilla/pkg/memcache"
	"fullgorilla/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error
	Me(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error)
}

type TokenCreator interface {
	CreateToken(userID uuid.UUID, role string) (string, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	mail        IMailService
	composer    *MailComposer
	resetTokens mem.ResetTokenStore
	tokens      TokenCreator
	metrics     *Metrics
	log         *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	mail IMailService,
	composer *MailComposer,
	resetTokens mem.ResetTokenStore,
	tokens TokenCreator,
	metrics *Metrics,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		mail:        mail,
		composer:    composer,
		resetTokens: resetTokens,
		tokens:      tokens,
		metrics:     metrics,
		log:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(account.ID, account.Role)
	if err != nil {
		a.log.Error("sign token", zap.String("account_id", account.ID.String()), zap.Error(err))
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token:             token,
		IsUserHavePremium: planOf(account.Subscription) == subscription.PlanPro,
	}, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	email := normalizeEmail(request.Email)

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	accountType := request.AccountType
	if accountType == "" {
		accountType = "individual"
	}
	account := &db_models.Account{
		Name:         strings.TrimSpace(request.DisplayName),
		Email:        email,
		PasswordHash: hashed,
		Role:         db_models.RoleUser,
		AccountType:  accountType,
	}
	sub := &db_models.Subscription{
		Plan:     string(subscription.PlanFree),
		Status:   db_models.SubStatusActive,
		StartsAt: time.Now().Unix(),
	}
	if err := a.accountRepo.CreateWithSubscription(ctx, account, sub); err != nil {
		a.log.Error("create account", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	account.Subscription = sub

	// A failed welcome mail never blocks registration.
	err = a.mail.Send(ctx, a.composer.Welcome(account.Email, account.Name, account.AccountType))
	a.metrics.Mail(EmailWelcome, err)
	if err != nil {
		a.log.Warn("welcome mail failed", zap.String("account_id", account.ID.String()), zap.Error(err))
	}

	return accountResponse(account), nil
}

// ForgotPassword answers nil for unknown emails so callers cannot probe for accounts.
func (a *AccountService) ForgotPassword(ctx context.Context, email string) error {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	a.resetTokens.Set(token, account.Email)

	hours := int(a.resetTokens.TTL().Hours())
	err = a.mail.Send(ctx, a.composer.PasswordReset(account.Email, account.Name, token, hours))
	a.metrics.Mail(EmailPasswordReset, err)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrMailDelivery, err)
	}
	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error {
	email := normalizeEmail(request.Email)
	stored, ok := a.resetTokens.Peek(request.Token)
	if !ok || stored != email {
		return utils.ErrInvalidResetToken
	}
	if _, ok := a.resetTokens.Consume(request.Token); !ok {
		return utils.ErrInvalidResetToken
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.accountRepo.UpdatePassword(ctx, account.ID, hashed); err != nil {
		a.log.Error("update password", zap.String("account_id", account.ID.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	a.log.Info("password reset", zap.String("account_id", account.ID.String()))
	return nil
}

func (a *AccountService) Me(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return accountResponse(account), nil
}

func planOf(sub *db_models.Subscription) subscription.Plan {
	if sub == nil {
		return subscription.PlanFree
	}
	return subscription.ParsePlan(sub.Plan)
}

func accountResponse(a *db_models.Account) *response_models.AccountResponse {
	plan := planOf(a.Subscription)
	return &response_models.AccountResponse{
		ID:                     a.ID.String(),
		Name:                   a.Name,
		Email:                  a.Email,
		Role:                   a.Role,
		AccountType:            a.AccountType,
		QuestionnaireCompleted: a.QuestionnaireCompleted,
		Plan:                   plan,
		Features:               subscription.FeaturesFor(plan),
	}
}
