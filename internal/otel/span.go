// Package otel provides OpenTelemetry instrumentation utilities for the catalog builder.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys used on build spans.
const (
	AttrBuildID      = attribute.Key("build.id")
	AttrBuildReason  = attribute.Key("build.reason")
	AttrCatalog      = attribute.Key("catalog.kind")
	AttrIDCount      = attribute.Key("catalog.id_count")
	AttrRecordCount  = attribute.Key("catalog.record_count")
	AttrEntryCount   = attribute.Key("decorations.entry_count")
	AttrBuildSkipped = attribute.Key("build.skipped")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records an error on a span and sets the span status to error.
// It safely handles nil spans and nil errors.
// The status description stays generic; details live in the span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
