package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ShutdownFunc flushes and stops a telemetry provider.
type ShutdownFunc func(context.Context) error

func ServiceName() string {
	name := os.Getenv("OTEL_SERVICE_NAME")
	if name == "" {
		name = "calculator-api"
	}
	return name
}

func newResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName()),
		),
	)
}

// InitTelemetry installs the OTLP trace, metric and log pipelines. Log
// records are teed from Logger, so InitLogger must run first. The returned
// function shuts every provider down.
func InitTelemetry(ctx context.Context) (ShutdownFunc, error) {
	res, err := newResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, setup := range []func(context.Context, *resource.Resource) (ShutdownFunc, error){
		initTracing,
		initMetrics,
		initLogging,
	} {
		fn, err := setup(ctx, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, fn)
	}

	return shutdown, nil
}

func initTracing(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

func initMetrics(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter),
		),
	)

	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

func initLogging(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	otelCore := otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider))

	// Tee the stdout core with the OTel core so logs go to both.
	Logger = zap.New(zapcore.NewTee(Logger.Core(), otelCore))

	return provider.Shutdown, nil
}

func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
