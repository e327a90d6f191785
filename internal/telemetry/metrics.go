package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// BuildMetricsMeterName is the name used for the build metrics meter
	BuildMetricsMeterName = "github.com/Girbilcannon/DecoToolsHelper/build"

	// BuildTracerName is the name used for the build tracer
	BuildTracerName = "github.com/Girbilcannon/DecoToolsHelper/build"
)

// BuildMetrics holds the OpenTelemetry instruments for catalog builds
type BuildMetrics struct {
	buildDuration    metric.Float64Histogram
	decorationsTotal metric.Int64Gauge
	buildsDeferred   metric.Int64Counter
}

// NewBuildMetrics creates a new BuildMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewBuildMetrics(provider metric.MeterProvider) (*BuildMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(BuildMetricsMeterName)

	buildDuration, err := meter.Float64Histogram(
		"decohelper_build_duration_seconds",
		metric.WithDescription("Duration of decoration database builds in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	decorationsTotal, err := meter.Int64Gauge(
		"decohelper_decorations_total",
		metric.WithDescription("Number of entries in the stored decoration database"),
		metric.WithUnit("{decoration}"),
	)
	if err != nil {
		return nil, err
	}

	buildsDeferred, err := meter.Int64Counter(
		"decohelper_builds_deferred_total",
		metric.WithDescription("Build triggers dropped because another build was in flight"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, err
	}

	return &BuildMetrics{
		buildDuration:    buildDuration,
		decorationsTotal: decorationsTotal,
		buildsDeferred:   buildsDeferred,
	}, nil
}

// RecordBuildDuration records how long a build took and how it ended
func (m *BuildMetrics) RecordBuildDuration(ctx context.Context, duration time.Duration, success, skipped bool) {
	if m == nil || m.buildDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.Bool("skipped", skipped),
	}

	m.buildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDecorationsTotal records the entry count of the stored database
func (m *BuildMetrics) RecordDecorationsTotal(ctx context.Context, count int64) {
	if m == nil || m.decorationsTotal == nil {
		return
	}
	m.decorationsTotal.Record(ctx, count)
}

// RecordBuildDeferred counts a trigger that found a build already running
func (m *BuildMetrics) RecordBuildDeferred(ctx context.Context) {
	if m == nil || m.buildsDeferred == nil {
		return
	}
	m.buildsDeferred.Add(ctx, 1)
}
