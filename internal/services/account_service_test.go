package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/subscription"
	mem "fullgorilla/pkg/memcache"
	"fullgorilla/pkg/utils"
)

type stubTokens struct{}

func (stubTokens) CreateToken(userID uuid.UUID, role string) (string, error) {
	return "token-" + role + "-" + userID.String(), nil
}

func (f *fixture) accountService() AccountServiceInterface {
	return NewAccountService(f.accounts, f.mailer, f.composer, mem.NewResetTokens(10, time.Hour), stubTokens{}, nil, f.log)
}

func register(t *testing.T, svc AccountServiceInterface, email string) string {
	t.Helper()
	out, err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Ana",
		Email:       email,
		Password:    "correct horse",
		AccountType: "family",
	})
	require.NoError(t, err)
	return out.ID
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	svc := f.accountService()

	id := register(t, svc, "  Ana@Example.com ")

	stored, err := f.accounts.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, id, stored.ID.String())
	assert.Equal(t, "family", stored.AccountType)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	require.NotNil(t, stored.Subscription)
	assert.Equal(t, string(subscription.PlanFree), stored.Subscription.Plan)

	welcome := f.mailer.last(t)
	assert.Equal(t, "ana@example.com", welcome.To)
	assert.Contains(t, welcome.Subject, "Welcome to Full Gorilla")

	_, err = svc.CreateAccount(context.Background(), request_models.SignUpRequest{Email: "ANA@example.com", Password: "x"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestCreateAccountSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errBoom

	register(t, f.accountService(), "ana@example.com")
	assert.Zero(t, f.mailer.count())
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := f.accountService()
	register(t, svc, "ana@example.com")

	out, err := svc.Login(context.Background(), request_models.LoginRequest{Email: "ANA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Contains(t, out.Token, "token-user-")
	assert.False(t, out.IsUserHavePremium)

	_, err = svc.Login(context.Background(), request_models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), request_models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accountService().ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Zero(t, f.mailer.count())
}

func resetToken(t *testing.T, m Mail) string {
	t.Helper()
	u, err := url.Parse(m.Data.ButtonURL)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestPasswordResetRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := f.accountService()
	ctx := context.Background()
	register(t, svc, "ana@example.com")

	require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
	mail := f.mailer.last(t)
	assert.Contains(t, mail.Subject, "Reset Your Full Gorilla Password")
	assert.Equal(t, "This link expires in 1 hours", mail.Data.Notice)
	token := resetToken(t, mail)

	err := svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "bo@example.com", Token: token, NewPassword: "new secret"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)

	require.NoError(t, svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "ana@example.com", Token: token, NewPassword: "new secret"}))

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "ana@example.com", Password: "new secret"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "ana@example.com", Token: token, NewPassword: "again"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken, "tokens are single use")
}

func TestForgotPasswordMailFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.accountService()
	register(t, svc, "ana@example.com")
	f.mailer.err = errBoom

	err := svc.ForgotPassword(context.Background(), "ana@example.com")
	assert.ErrorIs(t, err, utils.ErrMailDelivery)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	svc := f.accountService()
	id := register(t, svc, "ana@example.com")

	me, err := svc.Me(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
	assert.Equal(t, subscription.FeaturesFor(subscription.PlanFree), me.Features)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
