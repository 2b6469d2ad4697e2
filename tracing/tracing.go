// Package tracing wraps OpenTelemetry spans together with gocore stats and
// optional prometheus observations, so a validation step is timed once and
// reported everywhere.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

const tracerName = "ebxnode"

type statsKey struct{}

var rootStat = gocore.NewStat("ebxnode", true)

type Options func(s *TraceOptions)

type TraceOptions struct {
	ParentStat *gocore.Stat
	Histogram  prometheus.Histogram
	Counter    prometheus.Counter
	Logger     ulogger.Logger
	LogMessage string
	LogArgs    []interface{}
}

func WithParentStat(stat *gocore.Stat) Options {
	return func(s *TraceOptions) {
		s.ParentStat = stat
	}
}

// WithHistogram sets the prometheus histogram to be observed when the span is finished.
func WithHistogram(histogram prometheus.Histogram) Options {
	return func(s *TraceOptions) {
		s.Histogram = histogram
	}
}

// WithCounter sets the prometheus counter to be incremented when the span is finished.
func WithCounter(counter prometheus.Counter) Options {
	return func(s *TraceOptions) {
		s.Counter = counter
	}
}

// WithLogMessage logs the formatted message at INFO when the span starts and
// again, with the elapsed time appended, when it finishes.
func WithLogMessage(logger ulogger.Logger, format string, args ...interface{}) Options {
	return func(s *TraceOptions) {
		s.Logger = logger
		s.LogMessage = format
		s.LogArgs = args
	}
}

// StartTracing starts a new span with the given name and returns a context
// carrying the span and its stat, the stat itself and a function to finish both.
func StartTracing(ctx context.Context, name string, setOptions ...Options) (context.Context, *gocore.Stat, func()) {
	options := &TraceOptions{}
	for _, opt := range setOptions {
		opt(options)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, name)

	parent := options.ParentStat
	if parent == nil {
		parent = statFromContext(ctx)
	}

	stat := parent.NewStat(name, true)
	ctx = context.WithValue(ctx, statsKey{}, stat)

	start := gocore.CurrentTime()

	if options.Logger != nil && options.LogMessage != "" {
		options.Logger.Infof(options.LogMessage, options.LogArgs...)
	}

	return ctx, stat, func() {
		span.End()
		stat.AddTime(start)

		if options.Histogram != nil {
			options.Histogram.Observe(time.Since(start).Seconds())
		}

		if options.Counter != nil {
			options.Counter.Inc()
		}

		if options.Logger != nil && options.LogMessage != "" {
			done := fmt.Sprintf(" DONE in %s", time.Since(start))
			options.Logger.Infof(options.LogMessage+done, options.LogArgs...)
		}
	}
}

func statFromContext(ctx context.Context) *gocore.Stat {
	if stat, ok := ctx.Value(statsKey{}).(*gocore.Stat); ok {
		return stat
	}

	return rootStat
}
