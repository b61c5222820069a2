package controllers_fx

import (
	"go.uber.org/fx"

	"fullgorilla/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewQuestionnaireController),
	fx.Provide(controllers.NewCookbookController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewEmailController),
	fx.Provide(controllers.NewHealthController))
