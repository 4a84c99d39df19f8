package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "council"

// StartRunSpan starts a span for a full council run.
func StartRunSpan(ctx context.Context, runID, userID, assetID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("user.id", userID),
			attribute.String("asset.id", assetID),
		),
	)
}

// StartRoundSpan starts a span for one debate round within a run.
func StartRoundSpan(ctx context.Context, runID string, round int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "round",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("round", round),
		),
	)
}

// StartEvaluatorSpan starts a span for a single evaluator invocation.
func StartEvaluatorSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "evaluate",
		trace.WithAttributes(
			attribute.String("evaluator.name", name),
		),
	)
}
