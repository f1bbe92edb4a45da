package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/tripbook/backend/internal/config"
	"github.com/pkordes/tripbook/backend/internal/handler"
	"github.com/pkordes/tripbook/backend/internal/middleware"
)

// newRouter assembles the middleware chain around the API routes and the
// /metrics endpoint.
//
// Order: RequestID → RealIP → Logger → Metrics → Recoverer → ForceJSON →
// CORS → MaxBodySize. Recoverer sits inside the logger and metrics so a panic
// is still recorded as a 500. CORS wraps MaxBodySize so browsers can read an
// early 413.
func newRouter(cfg config.Config, logger *slog.Logger, api *handler.Server, reg *prometheus.Registry) http.Handler {
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.ForceJSON)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", api.Routes(middleware.NewAuthenticator([]byte(cfg.JWTSecret))))
	return r
}
