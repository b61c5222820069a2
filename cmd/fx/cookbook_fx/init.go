package cookbook_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/services"
)

var Module = fx.Provide(provideCookbookRepo, provideCookbookService)

func provideCookbookRepo(db *gorm.DB) repositories.CookbookRepository {
	return repositories.NewCookbookRepository(db)
}

func provideCookbookService(
	catalog *cookbook.Catalog,
	questions *questionnaire.Catalog,
	engine *recommendation.Engine,
	library *mealplan.Library,
	repo repositories.CookbookRepository,
	subRepo repositories.SubscriptionRepository,
	log *zap.Logger,
) services.CookbookServiceInterface {
	return services.NewCookbookService(catalog, questions, engine, library, repo, subRepo, log.Named("cookbook"))
}
