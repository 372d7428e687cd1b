package main

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/diario/diario/internal/config"
	"github.com/diario/diario/internal/handler"
	"github.com/diario/diario/internal/metrics"
	"github.com/diario/diario/internal/middleware"
	"github.com/diario/diario/internal/service"
)

// routerDeps groups everything the router wires into handlers.
type routerDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Journal  *service.JournalService
	DB       handler.HealthChecker
	Cache    handler.HealthChecker
	Limiter  middleware.IPLimiter
	Metrics  metrics.Snapshotter
	Frontend fs.FS
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	cfg, logger := d.Config, d.Logger

	h := handler.New()
	healthHandler := handler.NewHealthHandler(logger, d.DB, d.Cache)
	metricsHandler := handler.NewMetricsHandler(d.Metrics)
	postHandler := handler.NewPostHandler(d.Journal, logger)
	userHandler := handler.NewUserHandler(d.Journal, logger)
	autocompleteHandler := handler.NewAutocompleteHandler(d.Journal, logger)
	staticHandler := handler.NewStaticHandler(d.Frontend, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	autocompleteLimit := middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: d.Limiter,
		Enabled: cfg.AutocompleteRateLimitEnabled,
		RPS:     cfg.AutocompleteRPS,
		Burst:   cfg.AutocompleteBurst,
		Name:    "autocomplete",
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Security(middleware.APISecurityConfig(cfg.IsDevelopment())))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		r.Use(middleware.RequireJSON)

		r.Get("/posts", postHandler.List)
		r.Post("/posts", postHandler.Create)
		r.Post("/users", userHandler.Create)
		r.With(middleware.RateLimitIP(autocompleteLimit)).Post("/autocomplete", autocompleteHandler.Suggest)

		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)
	})

	// Everything else belongs to the frontend, which is read-only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Security(middleware.FrontendSecurityConfig(cfg.IsDevelopment())))
		r.Method(http.MethodGet, "/*", staticHandler)
		r.Method(http.MethodHead, "/*", staticHandler)
	})
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
