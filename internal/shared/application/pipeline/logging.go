package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

const tracerName = "github.com/felixgeelhaar/lumina/pipeline"

// LoggingBehavior records the start, completion and errors of every request.
// It never turns an error into a failure outcome.
type LoggingBehavior struct {
	logger  *slog.Logger
	metrics observability.Metrics
	tracer  trace.Tracer
}

// NewLoggingBehavior creates a LoggingBehavior. A nil metrics collector disables metrics.
func NewLoggingBehavior(logger *slog.Logger, metrics observability.Metrics) *LoggingBehavior {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &LoggingBehavior{
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// Stage returns StageLogging.
func (b *LoggingBehavior) Stage() Stage { return StageLogging }

// Handle logs around next and re-raises anything next raises.
func (b *LoggingBehavior) Handle(ctx context.Context, call *Call, next Next) (resp application.Response, err error) {
	ctx, span := b.tracer.Start(ctx, call.Name, trace.WithAttributes(
		attribute.String("request.type", call.Type),
		attribute.String("request.kind", call.Kind.String()),
		attribute.String(observability.CorrelationIDKey, call.CorrelationID),
	))
	defer span.End()

	b.logger.InfoContext(ctx, "request started",
		"request_type", call.Type,
		observability.CorrelationIDKey, call.CorrelationID,
		"request", call.Request,
	)

	timer := observability.StartTimer(b.metrics, call.Name, observability.T("kind", call.Kind.String()))

	defer func() {
		if r := recover(); r != nil {
			elapsed := timer.Stop(fmt.Errorf("panic: %v", r))
			b.logger.ErrorContext(ctx, "request panicked",
				"request_type", call.Type,
				observability.CorrelationIDKey, call.CorrelationID,
				observability.DurationKey, elapsed.Milliseconds(),
				observability.ErrorKey, fmt.Sprint(r),
				"request", call.Request,
			)
			span.SetStatus(codes.Error, "panic")
			panic(r)
		}
	}()

	resp, err = next(ctx)
	elapsed := timer.Stop(err)

	if err != nil {
		b.logger.ErrorContext(ctx, "request errored",
			"request_type", call.Type,
			observability.CorrelationIDKey, call.CorrelationID,
			observability.DurationKey, elapsed.Milliseconds(),
			observability.ErrorKey, err,
			"request", call.Request,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	attrs := []any{
		"request_type", call.Type,
		observability.CorrelationIDKey, call.CorrelationID,
		observability.DurationKey, elapsed.Milliseconds(),
		"success", resp.IsSuccess(),
	}
	if !resp.IsSuccess() {
		attrs = append(attrs, "failure", resp.Message(), "failure_kind", resp.Kind().String())
	}
	b.logger.InfoContext(ctx, "request completed", attrs...)
	span.SetAttributes(attribute.Bool("request.success", resp.IsSuccess()))

	return resp, nil
}
