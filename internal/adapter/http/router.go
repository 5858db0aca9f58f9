package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler         *handler.WalletHandler
	TransactionHandler    *handler.TransactionHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	RateLimiter           *middleware.RateLimiter
	RequestLogger         *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	} else {
		r.Use(chimiddleware.Logger)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

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

		// Wallets, scoped to their owner
		r.Route("/owners/{kind}/{id}/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Open)
			r.Get("/", cfg.WalletHandler.List)
			r.Route("/{currency}", func(r chi.Router) {
				r.Get("/", cfg.WalletHandler.Get)
				r.Post("/income", cfg.WalletHandler.Income)
				r.Post("/outcome", cfg.WalletHandler.Outcome)
				r.Get("/total", cfg.WalletHandler.Total)
				r.Get("/total/range", cfg.WalletHandler.TotalRange)
				r.Get("/transactions", cfg.WalletHandler.ListTransactions)
			})
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}/note", cfg.TransactionHandler.PatchNote)
			r.Patch("/{id}/details", cfg.TransactionHandler.PatchDetails)
		})

		// Reconciliation
		r.Get("/wallets/reconciliation", cfg.ReconciliationHandler.Check)
	})

	return r
}
