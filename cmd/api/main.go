package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load(os.Getenv("CALC_CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// Sessions
	store := session.NewStore(cfg.Session.IdleTimeout, observability.Logger)
	if err := session.RegisterMetrics(prometheus.DefaultRegisterer, store); err != nil {
		panic(err)
	}
	go store.Run(ctx, cfg.Session.JanitorInterval)

	// Router
	router := server.NewRouter(calculator.NewHandler(store, cfg.DecimalSeparator))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("decimal_separator", cfg.DecimalSeparator),
			zap.Bool("telemetry", cfg.Telemetry.Enabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, srv, cfg)
}

func waitForShutdown(ctx context.Context, srv *http.Server, cfg *config.Config) {

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
		return
	}

	observability.Logger.Info("server stopped")
}
