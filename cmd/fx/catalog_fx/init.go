package catalog_fx

import (
	"go.uber.org/fx"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
)

// Module provides the embedded catalogs. They are read-only after load and
// shared by every service.
var Module = fx.Provide(
	questionnaire.DefaultCatalog,
	questionnaire.NewFlow,
	cookbook.Default,
	mealplan.DefaultLibrary,
	provideEngine,
)

func provideEngine(catalog *cookbook.Catalog) *recommendation.Engine {
	return recommendation.NewEngine(catalog)
}
