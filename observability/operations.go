package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name for slnmerge operations
const TracerName = "github.com/willibrandon/slnmerge"

// Common attribute keys
const (
	AttrSolutionPath  = attribute.Key("sln.path")
	AttrSolutionCount = attribute.Key("sln.count")
	AttrProjectCount  = attribute.Key("sln.project.count")
	AttrOperation     = attribute.Key("sln.operation")
)

// StartParseSpan starts a span for parsing one solution document
func StartParseSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "solution.parse",
		trace.WithAttributes(
			AttrSolutionPath.String(path),
			AttrOperation.String("parse"),
		),
	)
}

// StartMergeSpan starts a span for merging solutions into target
func StartMergeSpan(ctx context.Context, target string, solutionCount int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "solution.merge",
		trace.WithAttributes(
			AttrSolutionPath.String(target),
			AttrSolutionCount.Int(solutionCount),
			AttrOperation.String("merge"),
		),
	)
}

// StartFixSpan starts a span for an identity repair pass
func StartFixSpan(ctx context.Context, solutionCount int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "solution.fix",
		trace.WithAttributes(
			AttrSolutionCount.Int(solutionCount),
			AttrOperation.String("fix"),
		),
	)
}

// RecordProjectCount records the resulting project count on the current span
func RecordProjectCount(ctx context.Context, count int) {
	trace.SpanFromContext(ctx).SetAttributes(AttrProjectCount.Int(count))
}

// AddEvent adds an event to the current span
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
