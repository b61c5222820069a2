package questionnaire_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/services"
)

var Module = fx.Provide(provideQuestionnaireRepo, provideQuestionnaireService)

func provideQuestionnaireRepo(db *gorm.DB) repositories.QuestionnaireRepository {
	return repositories.NewQuestionnaireRepository(db)
}

func provideQuestionnaireService(
	flow *questionnaire.Flow,
	engine *recommendation.Engine,
	cookbooks *cookbook.Catalog,
	sessions *services.SessionStore,
	accountRepo repositories.AccountRepository,
	repo repositories.QuestionnaireRepository,
	metrics *services.Metrics,
	log *zap.Logger,
) services.QuestionnaireServiceInterface {
	return services.NewQuestionnaireService(flow, engine, cookbooks, sessions, accountRepo, repo, metrics, log.Named("questionnaire"))
}
