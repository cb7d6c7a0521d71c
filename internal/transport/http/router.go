package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig bundles what the router needs to wire its routes.
type RouterConfig struct {
	Store  ResultStore
	Logger *slog.Logger

	// RateRPS and RateBurst enable rate limiting on the API group when
	// RateRPS is positive.
	RateRPS   float64
	RateBurst int
}

// NewRouter builds the HTTP router with the full middleware chain and all
// routes registered.
func NewRouter(cfg RouterConfig) chi.Router {
	resultHandler := NewResultHandler(cfg.Store, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Store)
	dashboardHandler := NewDashboardHandler(cfg.Store, cfg.Logger)

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(StructuredLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))

	// Metrics endpoint sits outside the API group so scrapes skip the
	// rate limiter.
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", dashboardHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateRPS > 0 {
			r.Use(NewRateLimiter(cfg.RateRPS, cfg.RateBurst, cfg.Logger).Handler)
		}

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.VersionInfo)

		r.Route("/result", func(r chi.Router) {
			r.Get("/", resultHandler.Get)
			r.Get("/diagnostics", resultHandler.Diagnostics)
			r.Get("/probabilities", resultHandler.Probabilities)
			r.Get("/levels", resultHandler.Levels)
			r.Get("/statistics", resultHandler.Statistics)
		})
	})

	return r
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
