package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/config"
	"github.com/mrwolf/journaly/internal/journal"
	"github.com/mrwolf/journaly/internal/llm"
)

func NewRouter(cfg *config.Config, svc *journal.Service, gateway *llm.Gateway, logger *zap.Logger, reg *prometheus.Registry) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger, newHTTPMetrics(reg)))
	r.Use(middleware.Recoverer)
	r.Use(CORS(cfg.CORSAllowedOrigins))

	handlers := NewHandlers(cfg, svc, gateway, logger)

	var limiter *RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	// Public endpoints
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/moods", handlers.Moods)
		r.Get("/home", handlers.Home)

		r.Route("/sessions", func(r chi.Router) {
			r.With(RateLimitMiddleware(limiter)).Post("/", handlers.StartSession)
			r.Get("/{sessionID}", handlers.GetSession)
			r.Delete("/{sessionID}", handlers.CancelSession)
			r.With(RateLimitMiddleware(limiter)).Post("/{sessionID}/messages", handlers.SendMessage)
			r.Put("/{sessionID}/mood", handlers.ChooseMood)
			r.With(RateLimitMiddleware(limiter)).Post("/{sessionID}/finish", handlers.FinishSession)
		})

		r.Get("/entries", handlers.ListEntries)
		r.Get("/entries/{entryID}", handlers.GetEntry)
		r.Get("/insights", handlers.Insights)
		r.Get("/calendar", handlers.Calendar)
	})

	return r
}
