package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards output until InitLogger runs.
var Logger = zap.NewNop()

func InitLogger() error {
	var err error

	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx is also attached as a zap.Any("context", ctx) field. The otelzap bridge
// treats any field holding a context.Context as the context for Emit, so the
// exported OTLP record carries the native TraceID/SpanID instead of zeros.
// The string fields keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
