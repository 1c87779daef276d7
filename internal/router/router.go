package router

import (
	"net/http"

	"tradehub-api/internal/handler"
	"tradehub-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler  *handler.HealthHandler
	OfferHandler   *handler.OfferHandler
	AccountHandler *handler.AccountHandler
	AuthHandler    *handler.AuthHandler
	AuthMiddleware func(http.Handler) http.Handler
	RateLimiter    func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token", "X-Callback-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
		r.Get("/healthz", cfg.HealthHandler.Ready)
	}

	if cfg.AuthHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", cfg.AuthHandler.CreateSession)
			r.Post("/verify", cfg.AuthHandler.Verify)
			r.Post("/revoke", cfg.AuthHandler.Revoke)
		})
	}

	// AUTHENTICATED routes: viewer identity resolved before any handler
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		if cfg.OfferHandler != nil {
			r.Get("/bought", cfg.OfferHandler.Bought)
			r.Get("/owned", cfg.OfferHandler.Owned)
		}
		if cfg.AccountHandler != nil {
			r.Get("/user", cfg.AccountHandler.Me)
		}
	})

	return r
}
