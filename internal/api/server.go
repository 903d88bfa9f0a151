package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/pokevault/catalog-api/internal/api/handler"
	"github.com/pokevault/catalog-api/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps handler.Deps, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(deps)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		// Liveness under the API prefix for the frontend proxy
		r.Get("/health", h.HealthCheck)

		// Cards. Static segments are registered before /{id}.
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", h.ListCards)
			r.Get("/metadata", h.GetCardMetadata)
			r.Get("/search/{term}", h.SearchCards)
			r.Get("/random/card", h.GetRandomCard)
			r.Get("/{id}", h.GetCard)
		})

		// Sets
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", h.ListSets)
			r.Get("/by-series", h.GetSetsBySeries)
			r.Get("/random/set", h.GetRandomSet)
			r.Get("/{id}", h.GetSet)
			r.Get("/{id}/cards", h.GetSetCards)
		})

		// Series
		r.Route("/series", func(r chi.Router) {
			r.Get("/", h.ListSeries)
			r.Get("/random/serie", h.GetRandomSerie)
			r.Get("/{id}", h.GetSerie)
			r.Get("/{id}/sets", h.GetSerieSets)
		})

		// Sync
		r.Route("/sync", func(r chi.Router) {
			r.Post("/", h.TriggerSync)
			r.Get("/status", h.GetSyncStatus)
			r.Get("/history", h.GetSyncHistory)
		})
	})

	return r
}
