package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	keysCounter     metric.Int64Counter
	keyHistogram    metric.Float64Histogram
	errorCounter    metric.Int64Counter
	resultGauge     metric.Float64Gauge
	sessionsCounter metric.Int64Counter
)

// InitMetrics registers the calculator's OTel instruments against the global
// meter provider. Call it after the provider is installed.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of key presses applied to calculator engines"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	keyHistogram, err = meter.Float64Histogram("calculator.key.duration",
		metric.WithDescription("Time spent applying a single key press in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating key histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("Numeric value of the display after the last request"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	sessionsCounter, err = meter.Int64Counter("calculator.sessions.created.total",
		metric.WithDescription("Total number of calculator sessions created"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating sessions counter: %w", err)
	}

	return nil
}
