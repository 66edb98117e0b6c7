package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Shutdown flushes and stops whatever Init installed.
type Shutdown func(ctx context.Context) error

// Init installs the global meter provider. Instruments are always exposed
// through registerer, which /metrics serves; when enabled they are also
// pushed over OTLP/gRPC to endpoint.
func Init(ctx context.Context, enabled bool, endpoint, serviceName, serviceVersion string, registerer prometheus.Registerer, logger *slog.Logger) (Shutdown, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	scrape, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	opts := []metric.Option{
		metric.WithResource(res),
		metric.WithReader(scrape),
	}

	if enabled {
		logger.Info("initializing OTel metrics export", "endpoint", endpoint)
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(10*time.Second))))
	} else {
		logger.Info("OTel metrics export disabled, serving /metrics only")
	}

	provider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}
