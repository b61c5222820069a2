package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/repositories"
	"fullgorilla/internal/services"
	mem "fullgorilla/pkg/memcache"
	"fullgorilla/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideTokenIssuer)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenIssuer(cfg infra.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	mailService services.IMailService,
	composer *services.MailComposer,
	resetTokens mem.ResetTokenStore,
	tokens *utils.TokenIssuer,
	metrics *services.Metrics,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, mailService, composer, resetTokens, tokens, metrics, log.Named("account"))
}
