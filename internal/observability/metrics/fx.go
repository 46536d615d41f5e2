package metrics

import (
	"github.com/smallbiznis/licentia/internal/config"
	"go.uber.org/fx"
)

// FromAppConfig derives the metrics configuration.
func FromAppConfig(appCfg config.Config) Config {
	return Config{
		Enabled:          appCfg.MetricsEnabled,
		ExporterEndpoint: appCfg.MetricsEndpoint,
		ExporterProtocol: appCfg.MetricsExporter,
		ServiceName:      appCfg.AppName,
	}
}

// Module wires the meter provider and domain instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(FromAppConfig),
	fx.Provide(NewProvider),
	fx.Provide(New),
)
