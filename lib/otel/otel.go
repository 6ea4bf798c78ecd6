// Package otel wires the OpenTelemetry SDK: OTLP gRPC exporters for traces,
// metrics, and logs, plus runtime instrumentation. Everything is gated on
// OTEL_EXPORTER_OTLP_ENDPOINT; without it the process runs with no-op
// telemetry and zero exporter goroutines.
package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const shutdownTimeout = 5 * time.Second

// Providers holds the configured SDK providers. The zero-ish disabled form
// is returned when no OTLP endpoint is set; all accessors then report nil.
type Providers struct {
	enabled        bool
	serviceName    string
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
}

// Setup initializes the OpenTelemetry SDK when OTEL_EXPORTER_OTLP_ENDPOINT
// is configured, registering the global tracer and meter providers.
func Setup(ctx context.Context, serviceName string) (*Providers, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return &Providers{serviceName: serviceName}, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	logExporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create log exporter: %w", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		return nil, fmt.Errorf("start runtime instrumentation: %w", err)
	}

	return &Providers{
		enabled:        true,
		serviceName:    serviceName,
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
		loggerProvider: loggerProvider,
	}, nil
}

// Enabled reports whether telemetry export is configured.
func (p *Providers) Enabled() bool {
	return p.enabled
}

// Meter returns the service meter, or nil when telemetry is disabled.
// Callers treat a nil meter as "record nothing".
func (p *Providers) Meter() metric.Meter {
	if !p.enabled {
		return nil
	}
	return p.meterProvider.Meter(p.serviceName)
}

// LoggerProvider returns the log provider for the slog bridge, or nil when
// telemetry is disabled.
func (p *Providers) LoggerProvider() otellog.LoggerProvider {
	if !p.enabled {
		return nil
	}
	return p.loggerProvider
}

// Shutdown flushes and stops all providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if !p.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	return errors.Join(
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
		p.loggerProvider.Shutdown(ctx),
	)
}
