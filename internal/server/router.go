package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clientauth/clientauth/internal/handler"
	"github.com/clientauth/clientauth/internal/metrics"
	"github.com/clientauth/clientauth/internal/middleware"
)

// RouterConfig carries everything the HTTP routes are built from.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  metrics.Recorder
	Verifier middleware.TokenVerifier

	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Clients *handler.ClientHandler

	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler

	CORS        middleware.CORSConfig
	Security    middleware.SecurityConfig
	MaxBodySize int64
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/health", cfg.Health.Health)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	requireToken := middleware.Auth(middleware.AuthConfig{
		Logger:   cfg.Logger,
		Verifier: cfg.Verifier,
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.MaxBodySize > 0 {
			r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
		}

		r.Post("/login", cfg.Auth.Login)
		r.Post("/clients", cfg.Clients.Create)

		r.With(requireToken).Get("/clients/me", cfg.Clients.GetMe)
		r.With(requireToken).Put("/clients/me", cfg.Clients.UpdateMe)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
