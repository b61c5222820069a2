package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"fullgorilla/internal/infra"
)

var Module = fx.Options(
	fx.Provide(infra.LoadConfig, provideLogger),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

func provideLogger(lc fx.Lifecycle, cfg infra.Config) (*zap.Logger, error) {
	log, err := infra.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	return log, nil
}
