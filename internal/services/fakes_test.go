package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/infra"
	"fullgorilla/internal/mealplan"
	dbm "fullgorilla/internal/models/db_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/subscription"
)

var errBoom = errors.New("boom")

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*dbm.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uuid.UUID]*dbm.Account{}}
}

func (r *fakeAccountRepo) CreateWithSubscription(_ context.Context, account *dbm.Account, sub *dbm.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.AccountID = account.ID
	stored := *account
	stored.Subscription = sub
	r.accounts[account.ID] = &stored
	return nil
}

func (r *fakeAccountRepo) FindById(_ context.Context, id uuid.UUID) (*dbm.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	out := *a
	if a.Subscription != nil {
		sub := *a.Subscription
		out.Subscription = &sub
	}
	return &out, nil
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*dbm.Account, error) {
	r.mu.Lock()
	var id uuid.UUID
	for _, a := range r.accounts {
		if a.Email == email {
			id = a.ID
		}
	}
	r.mu.Unlock()
	if id == uuid.Nil {
		return nil, nil
	}
	return r.FindById(ctx, id)
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return errors.New("record not found")
	}
	a.PasswordHash = hash
	return nil
}

func (r *fakeAccountRepo) ListQuestionnaireCompleted(_ context.Context) ([]dbm.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.Account
	for _, a := range r.accounts {
		if a.QuestionnaireCompleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// add stores an account with a subscription on plan.
func (r *fakeAccountRepo) add(t *testing.T, name, email string, plan subscription.Plan) uuid.UUID {
	t.Helper()
	a := &dbm.Account{Name: name, Email: email, Role: dbm.RoleUser, AccountType: "individual"}
	sub := &dbm.Subscription{Plan: string(plan), Status: dbm.SubStatusActive, StartsAt: 1}
	require.NoError(t, r.CreateWithSubscription(context.Background(), a, sub))
	return a.ID
}

func (r *fakeAccountRepo) stored(id uuid.UUID) *dbm.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}

// fakeSubscriptionRepo reads and writes the subscription hanging off the fake accounts.
type fakeSubscriptionRepo struct {
	accounts *fakeAccountRepo
	err      error
}

func (r *fakeSubscriptionRepo) FindByAccount(_ context.Context, accountID uuid.UUID) (*dbm.Subscription, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()
	a, ok := r.accounts.accounts[accountID]
	if !ok || a.Subscription == nil {
		return nil, nil
	}
	sub := *a.Subscription
	return &sub, nil
}

func (r *fakeSubscriptionRepo) Save(_ context.Context, sub *dbm.Subscription) error {
	if r.err != nil {
		return r.err
	}
	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()
	a, ok := r.accounts.accounts[sub.AccountID]
	if !ok {
		return errors.New("no account")
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	stored := *sub
	a.Subscription = &stored
	return nil
}

type fakeCookbookRepo struct {
	mu     sync.Mutex
	grants map[uuid.UUID][]string
	seeded []dbm.Cookbook
}

func newFakeCookbookRepo() *fakeCookbookRepo {
	return &fakeCookbookRepo{grants: map[uuid.UUID][]string{}}
}

func (r *fakeCookbookRepo) SeedCatalog(_ context.Context, cookbooks []dbm.Cookbook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seeded = cookbooks
	return nil
}

func (r *fakeCookbookRepo) GrantedSlugs(_ context.Context, accountID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.grants[accountID]), nil
}

func (r *fakeCookbookRepo) HasGrant(_ context.Context, accountID uuid.UUID, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.grants[accountID], slug), nil
}

func (r *fakeCookbookRepo) grant(accountID uuid.UUID, slugs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range slugs {
		if !slices.Contains(r.grants[accountID], s) {
			r.grants[accountID] = append(r.grants[accountID], s)
		}
	}
}

type fakeQuestionnaireRepo struct {
	mu        sync.Mutex
	saved     map[uuid.UUID]*dbm.QuestionnaireResponse
	accounts  *fakeAccountRepo
	cookbooks *fakeCookbookRepo
	err       error
}

func (r *fakeQuestionnaireRepo) SaveCompleted(_ context.Context, resp *dbm.QuestionnaireResponse, assigned []dbm.Cookbook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved[resp.AccountID] = resp
	for _, cb := range assigned {
		r.cookbooks.grant(resp.AccountID, cb.Slug)
	}
	r.accounts.mu.Lock()
	if a, ok := r.accounts.accounts[resp.AccountID]; ok {
		a.QuestionnaireCompleted = true
		a.AccountType = resp.AccountType
	}
	r.accounts.mu.Unlock()
	return nil
}

func (r *fakeQuestionnaireRepo) FindByAccount(_ context.Context, accountID uuid.UUID) (*dbm.QuestionnaireResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[accountID], nil
}

type fakeRatingRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[int]dbm.MealRating
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rating *dbm.MealRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[rating.AccountID] == nil {
		r.rows[rating.AccountID] = map[int]dbm.MealRating{}
	}
	rating.UpdatedAt = time.Now().Unix()
	r.rows[rating.AccountID][rating.MealID] = *rating
	return nil
}

func (r *fakeRatingRepo) sorted(accountID uuid.UUID) []dbm.MealRating {
	var out []dbm.MealRating
	for _, row := range r.rows[accountID] {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MealID < out[j].MealID })
	return out
}

func (r *fakeRatingRepo) ListByAccount(_ context.Context, accountID uuid.UUID, page, pageSize int) ([]dbm.MealRating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(accountID)
	start := min((page-1)*pageSize, len(all))
	end := min(start+pageSize, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *fakeRatingRepo) RatedMealIDs(_ context.Context, accountID uuid.UUID) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int
	for _, row := range r.sorted(accountID) {
		ids = append(ids, row.MealID)
	}
	return ids, nil
}

// recordingMailer keeps every mail it is asked to send. Addresses listed in
// failFor are rejected.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []Mail
	failFor map[string]bool
	err     error
}

func (m *recordingMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.failFor[mail.To] {
		return errBoom
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) last(t *testing.T) Mail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var fixedNow = time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

// fixture wires every service against the fakes and the embedded catalogs.
type fixture struct {
	questions *questionnaire.Catalog
	cookbooks *cookbook.Catalog
	library   *mealplan.Library
	engine    *recommendation.Engine

	accounts    *fakeAccountRepo
	subs        *fakeSubscriptionRepo
	cookRepo    *fakeCookbookRepo
	answersRepo *fakeQuestionnaireRepo
	ratings     *fakeRatingRepo
	mailer      *recordingMailer
	composer    *MailComposer
	cfg         infra.Config
	log         *zap.Logger
	sessionTTL  time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	questions, err := questionnaire.DefaultCatalog()
	require.NoError(t, err)
	cookbooks, err := cookbook.Default()
	require.NoError(t, err)
	library, err := mealplan.DefaultLibrary()
	require.NoError(t, err)

	f := &fixture{
		questions:  questions,
		cookbooks:  cookbooks,
		library:    library,
		engine:     recommendation.NewEngine(cookbooks),
		accounts:   newFakeAccountRepo(),
		cookRepo:   newFakeCookbookRepo(),
		ratings:    &fakeRatingRepo{rows: map[uuid.UUID]map[int]dbm.MealRating{}},
		mailer:     &recordingMailer{failFor: map[string]bool{}},
		composer:   &MailComposer{BaseURL: "https://app.test", ProPrice: 20, Now: func() time.Time { return fixedNow }},
		cfg:        infra.Config{ProPriceUSD: 20, WeeklyMailConcurrency: 2},
		log:        zap.NewNop(),
		sessionTTL: time.Hour,
	}
	f.subs = &fakeSubscriptionRepo{accounts: f.accounts}
	f.answersRepo = &fakeQuestionnaireRepo{
		saved:     map[uuid.UUID]*dbm.QuestionnaireResponse{},
		accounts:  f.accounts,
		cookbooks: f.cookRepo,
	}
	return f
}

func (f *fixture) questionnaireService() QuestionnaireServiceInterface {
	return NewQuestionnaireService(
		questionnaire.NewFlow(f.questions),
		f.engine,
		f.cookbooks,
		NewSessionStore(100, f.sessionTTL),
		f.accounts,
		f.answersRepo,
		nil,
		f.log,
	)
}

func (f *fixture) cookbookService() CookbookServiceInterface {
	return NewCookbookService(f.cookbooks, f.questions, f.engine, f.library, f.cookRepo, f.subs, f.log)
}

func (f *fixture) dashboardService(report *fakeDashboardRepo) DashboardServiceInterface {
	return NewDashboardService(f.cookbooks, f.questions, f.library, f.subs, f.cookRepo, f.answersRepo, f.ratings, report, f.cfg, f.log)
}

func (f *fixture) subscriptionService() *SubscriptionService {
	s := NewSubscriptionService(f.accounts, f.subs, f.mailer, f.composer, nil, f.cfg, f.log).(*SubscriptionService)
	s.now = func() time.Time { return fixedNow }
	return s
}
