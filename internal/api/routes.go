package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/waitlist-api/internal/config"
	"github.com/ignite/waitlist-api/internal/pkg/httputil"
)

// SetupRoutes configures the router and all middleware.
func SetupRoutes(h *Handlers, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// Signup forms are embedded on third-party pages, so the origin
	// allow-list comes from config. Empty list means open.
	origins := corsCfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httputil.MethodNotAllowed(w)
	})

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/subscribe", h.Subscribe)
		r.Get("/confirm", h.Confirm)
		r.Get("/unsubscribe", h.Unsubscribe)
		r.Post("/webhooks/provider", h.ProviderWebhook)
	})

	return r
}
