package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

func NewRouter(calc *calculator.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calc.RegisterRoutes(r)

	return r
}
