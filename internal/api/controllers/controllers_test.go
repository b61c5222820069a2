package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/models/response_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/middleware"
	"fullgorilla/pkg/utils"
)

var testAccount = uuid.MustParse("7d3b3f7e-2a55-4a8e-9f3c-1f0b2c3d4e5f")

func init() {
	gin.SetMode(gin.TestMode)
}

// authenticated stands in for the JWT middleware.
func authenticated(c *gin.Context) {
	c.Set(middleware.ContextUserID, testAccount.String())
	c.Next()
}

func perform(t *testing.T, r *gin.Engine, method, path string, body any) (int, utils.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

type fakeQuestionnaire struct {
	services.QuestionnaireServiceInterface
	view *response_models.SessionResponse
	err  error
	got  json.RawMessage
}

func (f *fakeQuestionnaire) SetAnswer(_ context.Context, accountID uuid.UUID, _ string, raw json.RawMessage) (*response_models.SessionResponse, error) {
	if accountID != testAccount {
		return nil, utils.ErrSessionForbidden
	}
	f.got = raw
	return f.view, f.err
}

func (f *fakeQuestionnaire) Next(context.Context, uuid.UUID, string) (*response_models.SessionResponse, error) {
	return f.view, f.err
}

func TestNextRejectedAnswerIs422WithView(t *testing.T) {
	svc := &fakeQuestionnaire{
		view: &response_models.SessionResponse{SessionID: "s1", Error: "Please enter your name"},
		err:  &questionnaire.ValidationError{QuestionID: "q1", Reason: "Please enter your name"},
	}
	r := gin.New()
	r.POST("/sessions/:id/next", authenticated, NewQuestionnaireController(svc).Next)

	code, out := perform(t, r, http.MethodPost, "/sessions/s1/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Please enter your name", out.Message)
	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s1", data["session_id"])
}

func TestNextMapsServiceErrors(t *testing.T) {
	svc := &fakeQuestionnaire{err: utils.ErrSessionCompleted}
	r := gin.New()
	r.POST("/sessions/:id/next", authenticated, NewQuestionnaireController(svc).Next)

	code, _ := perform(t, r, http.MethodPost, "/sessions/s1/next", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestSetAnswer(t *testing.T) {
	svc := &fakeQuestionnaire{view: &response_models.SessionResponse{SessionID: "s1"}}
	r := gin.New()
	r.PUT("/sessions/:id/answer", authenticated, NewQuestionnaireController(svc).SetAnswer)

	code, _ := perform(t, r, http.MethodPut, "/sessions/s1/answer", gin.H{"answer": []string{"vegan"}})
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `["vegan"]`, string(svc.got))

	code, _ = perform(t, r, http.MethodPut, "/sessions/s1/answer", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMissingIdentityIs401(t *testing.T) {
	r := gin.New()
	r.PUT("/sessions/:id/answer", NewQuestionnaireController(&fakeQuestionnaire{}).SetAnswer)

	code, _ := perform(t, r, http.MethodPut, "/sessions/s1/answer", gin.H{"answer": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

type fakeCookbooks struct {
	services.CookbookServiceInterface
}

func (fakeCookbooks) Detail(_ context.Context, _ uuid.UUID, slug string) (*response_models.CookbookDetailResponse, error) {
	switch slug {
	case "open":
		return &response_models.CookbookDetailResponse{CookbookResponse: response_models.CookbookResponse{Slug: "open", HasAccess: true}}, nil
	case "locked":
		return nil, utils.ErrCookbookLocked
	}
	return nil, utils.ErrCookbookNotFound
}

func TestCookbookDetailStatuses(t *testing.T) {
	r := gin.New()
	r.GET("/cookbooks/:slug", authenticated, NewCookbookController(fakeCookbooks{}).Detail)

	tests := map[string]int{
		"/cookbooks/open":    http.StatusOK,
		"/cookbooks/locked":  http.StatusForbidden,
		"/cookbooks/missing": http.StatusNotFound,
	}
	for path, want := range tests {
		code, _ := perform(t, r, http.MethodGet, path, nil)
		assert.Equal(t, want, code, path)
	}
}

type fakeDashboard struct {
	services.DashboardServiceInterface
	rng    response_models.TimeRange
	weekOf time.Time
}

func (f *fakeDashboard) BuildReport(_ context.Context, rng response_models.TimeRange) (*response_models.DashboardReport, error) {
	f.rng = rng
	return &response_models.DashboardReport{Range: rng}, nil
}

func (f *fakeDashboard) MealPlan(_ context.Context, _ uuid.UUID, weekOf time.Time) (*response_models.MealPlanResponse, error) {
	f.weekOf = weekOf
	return &response_models.MealPlanResponse{}, nil
}

func (f *fakeDashboard) RateMeal(_ context.Context, _ uuid.UUID, mealID int, _ request_models.RateMealRequest) (*response_models.MealRatingResponse, error) {
	if mealID == 999 {
		return nil, utils.ErrMealNotFound
	}
	return &response_models.MealRatingResponse{}, nil
}

func dashboardRouter(svc *fakeDashboard) *gin.Engine {
	ctrl := NewDashboardController(svc)
	ctrl.now = func() time.Time { return time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/admin/dashboard/stats", ctrl.Stats)
	r.GET("/dashboard/meal-plan", authenticated, ctrl.MealPlan)
	r.POST("/dashboard/meals/:id/rating", authenticated, ctrl.RateMeal)
	return r
}

func TestStatsQueryParsing(t *testing.T) {
	svc := &fakeDashboard{}
	r := dashboardRouter(svc)

	code, _ := perform(t, r, http.MethodGet, "/admin/dashboard/stats?last_days=7&interval=week&tz=Europe/Berlin", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "week", svc.rng.Interval)
	assert.Equal(t, "Europe/Berlin", svc.rng.Timezone)
	assert.Equal(t, time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC), svc.rng.Start)

	bad := []string{
		"/admin/dashboard/stats?interval=hour",
		"/admin/dashboard/stats?tz=Mars/Olympus",
		"/admin/dashboard/stats?last_days=0",
		"/admin/dashboard/stats?last_days=7&start=2025-03-01T00:00:00Z",
		"/admin/dashboard/stats?start=yesterday",
	}
	for _, path := range bad {
		code, _ := perform(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, code, path)
	}
}

func TestMealPlanWeekParam(t *testing.T) {
	svc := &fakeDashboard{}
	r := dashboardRouter(svc)

	code, _ := perform(t, r, http.MethodGet, "/dashboard/meal-plan?week=2025-04-02", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), svc.weekOf)

	code, _ = perform(t, r, http.MethodGet, "/dashboard/meal-plan?week=soon", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRateMeal(t *testing.T) {
	r := dashboardRouter(&fakeDashboard{})

	code, _ := perform(t, r, http.MethodPost, "/dashboard/meals/12/rating", gin.H{"rating": 4})
	assert.Equal(t, http.StatusOK, code)

	code, _ = perform(t, r, http.MethodPost, "/dashboard/meals/12/rating", gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = perform(t, r, http.MethodPost, "/dashboard/meals/abc/rating", gin.H{"rating": 4})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = perform(t, r, http.MethodPost, "/dashboard/meals/999/rating", gin.H{"rating": 4})
	assert.Equal(t, http.StatusNotFound, code)
}

type fakeEmails struct {
	err error
}

func (f fakeEmails) Send(context.Context, request_models.SendEmailRequest) error { return f.err }

func TestSendEmailErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"ok", nil, http.StatusOK, "Email sent successfully"},
		{"missing field", fmt.Errorf("%w: renewalDate is required for renewal emails", utils.ErrMissingField), http.StatusBadRequest, "renewalDate is required for renewal emails"},
		{"delivery", utils.ErrMailDelivery, http.StatusInternalServerError, "Failed to send email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/emails/send", NewEmailController(fakeEmails{err: tt.err}).Send)

			code, out := perform(t, r, http.MethodPost, "/emails/send", gin.H{"type": "welcome", "email": "a@b.c", "name": "A"})
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

type fakeAccounts struct {
	services.AccountServiceInterface
}

func (fakeAccounts) Login(_ context.Context, req request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	if req.Password != "correct horse" {
		return nil, utils.ErrInvalidCredentials
	}
	return &response_models.AccountLoginResponse{Token: "t"}, nil
}

func TestLogin(t *testing.T) {
	r := gin.New()
	r.POST("/accounts/login", NewAccountController(fakeAccounts{}).Login)

	code, out := perform(t, r, http.MethodPost, "/accounts/login", gin.H{"email": "ana@example.com", "password": "correct horse"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", out.Message)

	code, _ = perform(t, r, http.MethodPost, "/accounts/login", gin.H{"email": "ana@example.com", "password": "wrong one"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = perform(t, r, http.MethodPost, "/accounts/login", gin.H{"email": "not-an-email", "password": "correct horse"})
	assert.Equal(t, http.StatusBadRequest, code)
}
