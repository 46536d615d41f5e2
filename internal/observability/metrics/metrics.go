// Package metrics exposes license lifecycle counters over OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	issued   metric.Int64Counter
	renewed  metric.Int64Counter
	upgraded metric.Int64Counter
	removed  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "licentia"
	}
	meter := provider.Meter(name)

	issued, err := meter.Int64Counter("licentia_licenses_issued_total")
	if err != nil {
		return nil, err
	}
	renewed, err := meter.Int64Counter("licentia_licenses_renewed_total")
	if err != nil {
		return nil, err
	}
	upgraded, err := meter.Int64Counter("licentia_licenses_upgraded_total")
	if err != nil {
		return nil, err
	}
	removed, err := meter.Int64Counter("licentia_licenses_removed_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		issued:   issued,
		renewed:  renewed,
		upgraded: upgraded,
		removed:  removed,
	}, nil
}

func (m *Metrics) LicenseIssued(ctx context.Context, productID string) {
	if m == nil {
		return
	}
	m.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("product_id", productID)))
}

func (m *Metrics) LicenseRenewed(ctx context.Context, productID string) {
	if m == nil {
		return
	}
	m.renewed.Add(ctx, 1, metric.WithAttributes(attribute.String("product_id", productID)))
}

func (m *Metrics) LicenseUpgraded(ctx context.Context, productID string) {
	if m == nil {
		return
	}
	m.upgraded.Add(ctx, 1, metric.WithAttributes(attribute.String("product_id", productID)))
}

func (m *Metrics) LicensesRemoved(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.removed.Add(ctx, int64(count))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch protocol {
	case "http":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "", "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter protocol %q", protocol)
	}
}
