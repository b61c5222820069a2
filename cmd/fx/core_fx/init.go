// Package core_fx bundles every module except the HTTP layer, shared by the
// server and the operator CLI.
package core_fx

import (
	"go.uber.org/fx"

	"fullgorilla/cmd/fx/account_fx"
	"fullgorilla/cmd/fx/catalog_fx"
	"fullgorilla/cmd/fx/config_fx"
	"fullgorilla/cmd/fx/cookbook_fx"
	"fullgorilla/cmd/fx/dashboard"
	"fullgorilla/cmd/fx/db_fx"
	"fullgorilla/cmd/fx/mail_fx"
	"fullgorilla/cmd/fx/memcache_fx"
	"fullgorilla/cmd/fx/metrics_fx"
	"fullgorilla/cmd/fx/questionnaire_fx"
	"fullgorilla/cmd/fx/subscription_fx"
)

var Module = fx.Options(
	config_fx.Module,
	db_fx.Module,
	memcache_fx.Module,
	catalog_fx.Module,
	metrics_fx.Module,
	mail_fx.Module,
	account_fx.Module,
	subscription_fx.Module,
	cookbook_fx.Module,
	questionnaire_fx.Module,
	dashboard.Module,
)
