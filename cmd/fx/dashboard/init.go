package dashboard

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/infra"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepo, provideRatingRepo, provideDashboardService, provideWeeklyMailService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideRatingRepo(db *gorm.DB) repositories.MealRatingRepository {
	return repositories.NewMealRatingRepository(db)
}

func provideDashboardService(
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
) services.DashboardServiceInterface {
	return services.NewDashboardService(cookbooks, questions, library, subRepo, cookRepo, answersRepo, ratingRepo, reportRepo, cfg, log.Named("dashboard"))
}

func provideWeeklyMailService(
	accountRepo repositories.AccountRepository,
	dashboardService services.DashboardServiceInterface,
	library *mealplan.Library,
	mailService services.IMailService,
	composer *services.MailComposer,
	metrics *services.Metrics,
	cfg infra.Config,
	log *zap.Logger,
) services.WeeklyMailServiceInterface {
	return services.NewWeeklyMailService(accountRepo, dashboardService, library, mailService, composer, metrics, cfg, log.Named("weekly_mail"))
}
