package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is a lightweight handle for store and verifier internals that only
// need a span, without the stat and logging of StartTracing.
type Span struct {
	Ctx    context.Context
	otSpan trace.Span
}

func Start(ctx context.Context, name string) Span {
	span := Span{}
	span.Ctx, span.otSpan = otel.Tracer(tracerName).Start(ctx, name)

	return span
}

func (s *Span) SetTag(key, value string) {
	s.otSpan.SetAttributes(attribute.String(key, value))
}

func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}

	s.otSpan.RecordError(err)
	s.otSpan.SetStatus(codes.Error, err.Error())
}

func (s *Span) Finish() {
	s.otSpan.End()
}
