package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/settings"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var (
	once    sync.Once
	initErr error
	tp      *sdktrace.TracerProvider
	mu      sync.Mutex
)

// InitTracer installs the global OTLP tracer provider. Only the first call
// has any effect and nothing happens while tracing is disabled.
func InitTracer(tSettings *settings.Settings) error {
	if !tSettings.Tracing.Enabled {
		return nil
	}

	once.Do(func() {
		var exporter *otlptrace.Exporter

		exporter, initErr = otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpoint(tSettings.Tracing.CollectorURL),
			otlptracehttp.WithInsecure(),
		)
		if initErr != nil {
			initErr = errors.NewConfigurationError("failed to create OTLP exporter", initErr)
			return
		}

		var res *resource.Resource

		res, initErr = resource.New(
			context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(tSettings.ClientName),
			),
		)
		if initErr != nil {
			initErr = errors.NewConfigurationError("failed to create resource", initErr)
			return
		}

		setTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(tSettings.Tracing.SampleRate)),
			sdktrace.WithResource(res),
		))
	})

	return initErr
}

func setTracerProvider(provider *sdktrace.TracerProvider) {
	mu.Lock()
	defer mu.Unlock()

	tp = provider

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// ShutdownTracer flushes and stops the tracer provider. Calling it again is a no-op.
func ShutdownTracer(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if tp == nil {
		return nil
	}

	if err := tp.ForceFlush(ctx); err != nil {
		return errors.NewProcessingError("failed to flush spans", err)
	}

	if err := tp.Shutdown(ctx); err != nil {
		return errors.NewProcessingError("failed to shutdown tracer", err)
	}

	tp = nil

	return nil
}
