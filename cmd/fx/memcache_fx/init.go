package memcache_fx

import (
	"go.uber.org/fx"

	"fullgorilla/internal/infra"
	"fullgorilla/internal/services"
	mem "fullgorilla/pkg/memcache"
)

var Module = fx.Provide(provideResetTokens, provideSessionStore)

func provideResetTokens(cfg infra.Config) mem.ResetTokenStore {
	return mem.NewResetTokens(cfg.SessionCapacity, cfg.ResetTokenTTL)
}

func provideSessionStore(cfg infra.Config) *services.SessionStore {
	return services.NewSessionStore(cfg.SessionCapacity, cfg.SessionTTL)
}
