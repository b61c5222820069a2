package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/models/response_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/subscription"
	"fullgorilla/pkg/utils"
)

type CookbookServiceInterface interface {
	List(ctx context.Context, accountID uuid.UUID) (*response_models.CookbookListResponse, error)
	Detail(ctx context.Context, accountID uuid.UUID, slug string) (*response_models.CookbookDetailResponse, error)
	// Recommend scores a questionnaire without storing anything.
	Recommend(ctx context.Context, payload request_models.QuestionnairePayload) (*response_models.RecommendationResponse, error)
	SeedCatalog(ctx context.Context) error
}

type CookbookService struct {
	catalog   *cookbook.Catalog
	questions *questionnaire.Catalog
	engine    *recommendation.Engine
	library   *mealplan.Library
	repo      repositories.CookbookRepository
	subRepo   repositories.SubscriptionRepository
	log       *zap.Logger
}

func NewCookbookService(
	catalog *cookbook.Catalog,
	questions *questionnaire.Catalog,
	engine *recommendation.Engine,
	library *mealplan.Library,
	repo repositories.CookbookRepository,
	subRepo repositories.SubscriptionRepository,
	log *zap.Logger,
) CookbookServiceInterface {
	return &CookbookService{
		catalog:   catalog,
		questions: questions,
		engine:    engine,
		library:   library,
		repo:      repo,
		subRepo:   subRepo,
		log:       log,
	}
}

// access returns the account's plan and the slugs it was granted.
func (c *CookbookService) access(ctx context.Context, accountID uuid.UUID) (*response_models.CookbookListResponse, []string, error) {
	sub, err := c.subRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	granted, err := c.repo.GrantedSlugs(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &response_models.CookbookListResponse{Plan: planOf(sub)}, granted, nil
}

func (c *CookbookService) List(ctx context.Context, accountID uuid.UUID) (*response_models.CookbookListResponse, error) {
	out, granted, err := c.access(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out.Cookbooks = make([]response_models.CookbookResponse, 0, c.catalog.Len())
	for _, cb := range c.catalog.All() {
		has := subscriptionAccess(out, granted, cb.Slug)
		out.Cookbooks = append(out.Cookbooks, response_models.NewCookbookResponse(cb, has))
	}
	return out, nil
}

func (c *CookbookService) Detail(ctx context.Context, accountID uuid.UUID, slug string) (*response_models.CookbookDetailResponse, error) {
	cb, ok := c.catalog.BySlug(slug)
	if !ok {
		return nil, utils.ErrCookbookNotFound
	}
	out, granted, err := c.access(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !subscriptionAccess(out, granted, slug) {
		return nil, utils.ErrCookbookLocked
	}
	return &response_models.CookbookDetailResponse{
		CookbookResponse: response_models.NewCookbookResponse(cb, true),
		Meals:            c.library.FromCookbooks([]string{slug}),
	}, nil
}

func (c *CookbookService) Recommend(_ context.Context, payload request_models.QuestionnairePayload) (*response_models.RecommendationResponse, error) {
	primary, err := decodeResponses(c.questions, payload.PrimaryResponses)
	if err != nil {
		return nil, err
	}
	members := make([]questionnaire.Member, 0, len(payload.FamilyMembers))
	for _, m := range payload.FamilyMembers {
		responses, err := decodeResponses(c.questions, m.Responses)
		if err != nil {
			return nil, err
		}
		members = append(members, questionnaire.Member{ID: m.ID, Name: m.Name, Responses: responses})
	}

	out := &response_models.RecommendationResponse{
		Ranking: c.engine.Score(primary, members),
	}
	for _, cb := range c.catalog.Details(c.engine.Assign(primary, members)) {
		out.Assigned = append(out.Assigned, response_models.NewCookbookResponse(cb, true))
	}
	return out, nil
}

func (c *CookbookService) SeedCatalog(ctx context.Context) error {
	if err := c.repo.SeedCatalog(ctx, cookbookRows(c.catalog.All())); err != nil {
		return fmt.Errorf("seed cookbooks: %w", err)
	}
	c.log.Info("cookbook catalog seeded", zap.Int("cookbooks", c.catalog.Len()))
	return nil
}

func subscriptionAccess(list *response_models.CookbookListResponse, granted []string, slug string) bool {
	return subscription.HasAccess(list.Plan, slices.Contains(granted, slug))
}
