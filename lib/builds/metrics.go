package builds

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics provides telemetry for the snapshot pipeline.
type Metrics struct {
	buildDuration metric.Float64Histogram
	stageDuration metric.Float64Histogram
	buildsTotal   metric.Int64Counter
}

// NewMetrics creates a new Metrics instance
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	buildDuration, err := meter.Float64Histogram(
		"snapsmith_build_duration_seconds",
		metric.WithDescription("Duration of full snapshot builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"snapsmith_build_stage_duration_seconds",
		metric.WithDescription("Duration of individual pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	buildsTotal, err := meter.Int64Counter(
		"snapsmith_builds_total",
		metric.WithDescription("Total number of snapshot builds"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		buildDuration: buildDuration,
		stageDuration: stageDuration,
		buildsTotal:   buildsTotal,
	}, nil
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, stage State, status string, duration time.Duration) {
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", string(stage)),
		attribute.String("status", status),
	))
}

// RecordBuild records metrics for a completed build.
func (m *Metrics) RecordBuild(ctx context.Context, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("status", status),
	}

	m.buildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.buildsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
