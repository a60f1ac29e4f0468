package observability

import (
	"github.com/brandkit/brandkit/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func provideRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

var Module = fx.Module("observability",
	fx.Provide(
		provideRegisterer,
		metrics.NewHTTPMetrics,
	),
)
