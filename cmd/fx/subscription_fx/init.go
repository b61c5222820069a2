package subscription_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/services"
)

var Module = fx.Provide(provideSubscriptionRepo, provideSubscriptionService)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	mailService services.IMailService,
	composer *services.MailComposer,
	metrics *services.Metrics,
	cfg infra.Config,
	log *zap.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(accountRepo, subRepo, mailService, composer, metrics, cfg, log.Named("subscription"))
}
