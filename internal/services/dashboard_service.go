package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/infra"
	"fullgorilla/internal/mealplan"
	dbm "fullgorilla/internal/models/db_models"
	"fullgorilla/internal/models/request_models"
	resp "fullgorilla/internal/models/response_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/subscription"
	"fullgorilla/pkg/utils"
)

const maxPageSize = 100

type DashboardServiceInterface interface {
	// MealPlan builds the week containing weekOf from the cookbooks the
	// account can open, honouring the household's dietary restrictions.
	MealPlan(ctx context.Context, accountID uuid.UUID, weekOf time.Time) (*resp.MealPlanResponse, error)
	RateMeal(ctx context.Context, accountID uuid.UUID, mealID int, request request_models.RateMealRequest) (*resp.MealRatingResponse, error)
	Ratings(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*resp.PagedResponse[resp.MealRatingResponse], error)
	BuildReport(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type DashboardService struct {
	cookbooks   *cookbook.Catalog
	questions   *questionnaire.Catalog
	library     *mealplan.Library
	subRepo     repositories.SubscriptionRepository
	cookRepo    repositories.CookbookRepository
	answersRepo repositories.QuestionnaireRepository
	ratingRepo  repositories.MealRatingRepository
	reportRepo  repositories.DashboardRepository
	proPrice    int
	log         *zap.Logger
}

func NewDashboardService(
	cookbooks *cookbook.Catalog,
	questions *questionnaire.Catalog,
	library *mealplan.Library,
	subRepo repositories.SubscriptionRepository,
	cookRepo repositories.CookbookRepository,
	answersRepo repositories.QuestionnaireRepository,
	ratingRepo repositories.MealRatingRepository,
	reportRepo repositories.DashboardRepository,
	cfg infra.Config,
	log *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		cookbooks:   cookbooks,
		questions:   questions,
		library:     library,
		subRepo:     subRepo,
		cookRepo:    cookRepo,
		answersRepo: answersRepo,
		ratingRepo:  ratingRepo,
		reportRepo:  reportRepo,
		proPrice:    cfg.ProPriceUSD,
		log:         log,
	}
}

func (s *DashboardService) MealPlan(ctx context.Context, accountID uuid.UUID, weekOf time.Time) (*resp.MealPlanResponse, error) {
	sub, err := s.subRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	plan := planOf(sub)

	accessible, err := s.accessibleCookbooks(ctx, accountID, plan)
	if err != nil {
		return nil, err
	}

	restrictions, err := s.householdRestrictions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rated, err := s.ratingRepo.RatedMealIDs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	week := mealplan.Build(s.library, mealplan.Request{
		WeekOf:       weekOf,
		Accessible:   accessible,
		Restrictions: restrictions,
	})

	out := &resp.MealPlanResponse{
		Plan:         plan,
		Features:     subscription.FeaturesFor(plan),
		Cookbooks:    accessible,
		Restrictions: restrictions,
		UnratedMeals: unratedIn(week, rated),
		MealPlan:     week,
	}
	if subscription.ShouldShowUpgradePrompt(plan) {
		out.UpgradeMessage = subscription.UpgradeMessage(plan)
	}
	if out.Cookbooks == nil {
		out.Cookbooks = []string{}
	}
	if out.Restrictions == nil {
		out.Restrictions = []string{}
	}
	return out, nil
}

// accessibleCookbooks is nil for pro, meaning the whole library. Free
// accounts without grants fall back to the catalog's free cookbooks.
func (s *DashboardService) accessibleCookbooks(ctx context.Context, accountID uuid.UUID, plan subscription.Plan) ([]string, error) {
	if plan == subscription.PlanPro {
		return nil, nil
	}
	granted, err := s.cookRepo.GrantedSlugs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if len(granted) > 0 {
		return granted, nil
	}
	var free []string
	for _, cb := range s.cookbooks.Free() {
		free = append(free, cb.Slug)
	}
	return free, nil
}

// householdRestrictions is the union over every respondent's answers.
func (s *DashboardService) householdRestrictions(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	stored, err := s.answersRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if stored == nil {
		return nil, nil
	}

	var out []string
	merge := func(data []byte) error {
		r, err := decodeStored(s.questions, data)
		if err != nil {
			return err
		}
		for _, tag := range mealplan.RestrictionsFrom(r) {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
		return nil
	}

	if err := merge(stored.Responses); err != nil {
		return nil, err
	}
	for _, m := range stored.Members {
		if err := merge(m.Responses); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unratedIn(week mealplan.WeeklyPlan, rated []int) int {
	seen := map[int]bool{}
	for _, id := range rated {
		seen[id] = true
	}
	n := 0
	for _, d := range week.Days {
		for _, slot := range []mealplan.Slot{d.Breakfast, d.Lunch, d.Dinner} {
			if slot.ID == 0 || seen[slot.ID] {
				continue
			}
			seen[slot.ID] = true
			n++
		}
	}
	return n
}

func (s *DashboardService) RateMeal(ctx context.Context, accountID uuid.UUID, mealID int, request request_models.RateMealRequest) (*resp.MealRatingResponse, error) {
	if request.Rating < 1 || request.Rating > 5 {
		return nil, utils.ErrInvalidRating
	}
	meal, ok := s.library.Meal(mealID)
	if !ok {
		return nil, utils.ErrMealNotFound
	}

	rating := &dbm.MealRating{
		AccountID: accountID,
		MealID:    mealID,
		Rating:    request.Rating,
		Comment:   request.Comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		s.log.Error("save meal rating", zap.Int("meal_id", mealID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &resp.MealRatingResponse{
		MealID:    meal.ID,
		MealName:  meal.Name,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		UpdatedAt: rating.UpdatedAt,
	}, nil
}

func (s *DashboardService) Ratings(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*resp.PagedResponse[resp.MealRatingResponse], error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	rows, total, err := s.ratingRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := &resp.PagedResponse[resp.MealRatingResponse]{
		Items:    make([]resp.MealRatingResponse, 0, len(rows)),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	for _, r := range rows {
		item := resp.MealRatingResponse{MealID: r.MealID, Rating: r.Rating, Comment: r.Comment, UpdatedAt: r.UpdatedAt}
		if meal, ok := s.library.Meal(r.MealID); ok {
			item.MealName = meal.Name
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// normalizeRange defaults to the last 30 days by day and orders the bounds.
func normalizeRange(r resp.TimeRange, now time.Time) resp.TimeRange {
	out := r
	switch out.Interval {
	case "day", "week", "month":
	default:
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = now.UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30)
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func points(rows []repositories.BucketSum) []resp.SeriesPoint {
	out := make([]resp.SeriesPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
	}
	return out
}

func (s *DashboardService) BuildReport(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng, time.Now())
	report := &resp.DashboardReport{Range: rng}
	k := &report.KPIs

	var err error
	if k.TotalAccounts, err = s.reportRepo.CountTotalAccounts(ctx); err != nil {
		return nil, err
	}
	if k.NewAccounts, err = s.reportRepo.CountNewAccounts(ctx, rng.Start, rng.End); err != nil {
		return nil, err
	}
	if k.QuestionnairesDone, err = s.reportRepo.CountQuestionnaireCompleted(ctx); err != nil {
		return nil, err
	}
	if k.TotalAccounts > 0 {
		k.CompletionPct = float64(k.QuestionnairesDone) * 100 / float64(k.TotalAccounts)
	}
	if k.ActiveSubscriptions, err = s.reportRepo.CountSubscriptionsByStatus(ctx, dbm.SubStatusActive); err != nil {
		return nil, err
	}
	if k.PastDueSubscriptions, err = s.reportRepo.CountSubscriptionsByStatus(ctx, dbm.SubStatusPastDue); err != nil {
		return nil, err
	}
	if k.CanceledSubscriptions, err = s.reportRepo.CountSubscriptionsByStatus(ctx, dbm.SubStatusCanceled); err != nil {
		return nil, err
	}
	if k.AverageMealRating, err = s.reportRepo.AverageRating(ctx); err != nil {
		return nil, err
	}

	newUsers, err := s.reportRepo.NewUsersSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, err
	}
	report.NewUsers = points(newUsers)

	completions, err := s.reportRepo.CompletionsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, err
	}
	report.Completions = points(completions)

	mix, err := s.reportRepo.PlanMix(ctx)
	if err != nil {
		return nil, err
	}
	var totalActive int64
	for _, r := range mix {
		totalActive += r.Count
	}
	report.PlanMix = make([]resp.PlanMixItem, 0, len(mix))
	for _, r := range mix {
		item := resp.PlanMixItem{Plan: r.Plan, Count: r.Count}
		if totalActive > 0 {
			item.Percent = float64(r.Count) * 100 / float64(totalActive)
		}
		if subscription.ParsePlan(r.Plan) == subscription.PlanPro {
			k.ProSubscribers += r.Count
		}
		report.PlanMix = append(report.PlanMix, item)
	}
	k.MonthlyRevenueEstimate = float64(k.ProSubscribers) * float64(s.proPrice)

	top, err := s.reportRepo.TopCookbooks(ctx, 10)
	if err != nil {
		return nil, err
	}
	report.TopCookbooks = make([]resp.TopCookbook, 0, len(top))
	for _, r := range top {
		report.TopCookbooks = append(report.TopCookbooks, resp.TopCookbook{Slug: r.Slug, Name: r.Name, Grants: r.Count})
	}

	return report, nil
}
