package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// initTelemetry installs the OTLP pipelines when enabled and then registers
// the calculator's metric instruments. With telemetry disabled the instruments
// bind to the global no-op provider.
func initTelemetry(ctx context.Context, cfg *config.Config) (observability.ShutdownFunc, error) {
	shutdown := observability.ShutdownFunc(func(context.Context) error { return nil })

	if cfg.Telemetry.Enabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
