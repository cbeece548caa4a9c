package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ratiohq/cashup/internal/adapter/http/handler"
	"github.com/ratiohq/cashup/internal/adapter/http/middleware"
	"github.com/ratiohq/cashup/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CashUpHandler    *handler.CashUpHandler
	ReportHandler    *handler.ReportHandler
	SelectionHandler *handler.SelectionHandler
	SettingsHandler  *handler.SettingsHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Put("/", cfg.SettingsHandler.Update)
		})

		// Cash-ups
		r.Route("/cashups", func(r chi.Router) {
			r.Post("/", cfg.CashUpHandler.Create)
			r.Get("/{date}", cfg.CashUpHandler.GetByDate)
			r.Put("/{date}", cfg.CashUpHandler.Save)
			r.Post("/{date}/finalize", cfg.CashUpHandler.Finalize)
			r.Get("/{date}/reconciliation", cfg.CashUpHandler.GetReconciliation)
		})

		// Reports
		r.Get("/reports/consolidated", cfg.ReportHandler.Consolidated)

		// Grid selection
		r.Route("/grids/{table}", func(r chi.Router) {
			r.Post("/select", cfg.SelectionHandler.Select)
			r.Post("/extend", cfg.SelectionHandler.Extend)
			r.Post("/commit", cfg.SelectionHandler.Commit)
			r.Delete("/selection", cfg.SelectionHandler.Clear)
			r.Get("/stats", cfg.SelectionHandler.Stats)
			r.Get("/serialize", cfg.SelectionHandler.Serialize)
		})
	})

	return r
}
