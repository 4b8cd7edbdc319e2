package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StageFunc is a pipeline stage executed under a trace span.
type StageFunc func(ctx context.Context) error

// TraceStage wraps a pipeline stage (geogrid load, cost surface build,
// Delaunay triangulation, corridor rasterization, routing, export, MILP
// formulation) in a span named after the stage, recording errors and status.
func TraceStage(ctx context.Context, stage string, fn StageFunc) error {
	ctx, span := StartSpan(ctx, stage, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(attribute.String(AttrStageName, stage))

	err := fn(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
