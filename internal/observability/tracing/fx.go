package tracing

import (
	"github.com/smallbiznis/licentia/internal/config"
	"go.uber.org/fx"
)

// FromAppConfig derives the tracing configuration.
func FromAppConfig(appCfg config.Config) Config {
	return Config{
		Enabled:          appCfg.TracingEnabled,
		ExporterEndpoint: appCfg.TracingEndpoint,
		ExporterProtocol: appCfg.TracingExporter,
		ServiceName:      appCfg.AppName,
		ServiceVersion:   appCfg.AppVersion,
		Environment:      appCfg.Environment,
	}
}

// Module wires the tracer provider.
var Module = fx.Module("observability.tracing",
	fx.Provide(FromAppConfig),
	fx.Provide(NewProvider),
)
