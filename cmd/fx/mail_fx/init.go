package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/services"
)

var Module = fx.Provide(provideMailService, provideComposer, services.NewEmailService)

func provideMailService(cfg infra.Config, log *zap.Logger) services.IMailService {
	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		log.Warn("smtp credentials not set, mail delivery will fail", zap.String("host", cfg.SMTP.Host))
	}
	return services.NewSMTPMailService(services.SMTPConfigFrom(cfg.SMTP), log.Named("mail"))
}

func provideComposer(cfg infra.Config) *services.MailComposer {
	return services.NewMailComposer(cfg.AppBaseURL, cfg.ProPriceUSD)
}
