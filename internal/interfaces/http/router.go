package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/handlers"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil members are skipped.
type RouterConfig struct {
	RiskHandler   *handlers.RiskHandler
	HealthHandler *handlers.HealthHandler

	CORS      *middleware.CORSConfig
	Logging   *middleware.LoggingConfig
	RateLimit *middleware.RateLimitConfig
	// Limiter is shared with the config watcher so reloads take effect.
	// Built from RateLimit when nil.
	Limiter *middleware.KeyedLimiter

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the route tree: health checks and the Prometheus scrape endpoint
// at the root, the risk API under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, *cfg.Logging))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimit != nil {
			limiter := cfg.Limiter
			if limiter == nil {
				limiter = middleware.NewKeyedLimiter(*cfg.RateLimit)
			}
			api.Use(middleware.RateLimit(limiter, *cfg.RateLimit))
		}
		registerRiskRoutes(api, cfg.RiskHandler)
	})

	return r
}

func registerRiskRoutes(r chi.Router, h *handlers.RiskHandler) {
	if h == nil {
		return
	}
	r.Get("/risks", h.ListRisks)
	r.Get("/suppliers", h.ListSuppliers)
	r.Get("/news", h.ListEvents)
	r.Get("/weather", h.ListWeather)
	r.Post("/simulate", h.Simulate)
	r.Post("/benchmark", h.Benchmark)
	r.Get("/metrics/gateway", h.GatewayMetrics)
}

//Personal.AI order the ending
