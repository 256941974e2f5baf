package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/handlers"
)

// RecordError centralises request failure handling: records the error on the
// span, increments counter, logs with trace context and writes a JSON error
// response. The request id travels in the X-Request-ID header, not the body.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, status int, w http.ResponseWriter) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))

	logger.Error(msg,
		zap.String("operation", opName),
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	handlers.WriteError(w, status, msg)
}
