package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"fullgorilla/internal/services"
	"fullgorilla/pkg/middleware"
)

var Module = fx.Provide(
	provideRegistry,
	fx.Annotate(services.NewMetrics, fx.From(new(*prometheus.Registry))),
	fx.Annotate(middleware.NewHTTPMetrics, fx.From(new(*prometheus.Registry))),
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
