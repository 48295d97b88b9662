package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "phone-agent"

// StartSpan starts a span named name and tags it with the given fields.
// Fields are also attached to the returned context so log lines inside the
// span carry the same correlation keys.
func StartSpan(ctx context.Context, name string, fields ...Field) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, attribute.String(f.Key, fmt.Sprint(f.Value)))
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	if len(fields) > 0 {
		ctx = WithFields(ctx, fields...)
	}
	return ctx, span
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
