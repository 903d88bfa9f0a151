// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the catalog repository directly; there is no service layer.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pokevault/catalog-api/internal/api/respond"
	"github.com/pokevault/catalog-api/internal/cache"
	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/query"
	"github.com/pokevault/catalog-api/internal/seed"
	"github.com/pokevault/catalog-api/internal/store"
)

// Catalog is the read side of the document store used by the handlers.
// *store.Catalog satisfies it.
type Catalog interface {
	FindCards(ctx context.Context, f query.CardFilter) (store.Page[catalog.Card], error)
	CardByID(ctx context.Context, id string) (*catalog.Card, error)
	SearchCards(ctx context.Context, term string, limit int) ([]catalog.Card, error)
	RandomCard(ctx context.Context) (*catalog.Card, error)
	CardMetadata(ctx context.Context) (catalog.Metadata, error)

	FindSets(ctx context.Context, f query.SetFilter) (store.Page[catalog.Set], error)
	SetByID(ctx context.Context, id string) (*catalog.Set, error)
	SetsBySerie(ctx context.Context, serieID string) ([]catalog.Set, error)
	SetsGroupedBySeries(ctx context.Context) ([]catalog.SeriesGroup, error)
	RandomSet(ctx context.Context) (*catalog.Set, error)

	FindSeries(ctx context.Context, f query.SerieFilter) (store.Page[catalog.Serie], error)
	SerieByID(ctx context.Context, id string) (*catalog.Serie, error)
	RandomSerie(ctx context.Context) (*catalog.Serie, error)
}

// SyncService triggers syncs and reports their state. *seed.Coordinator
// satisfies it.
type SyncService interface {
	Run(ctx context.Context, trigger string, phase seed.Phase) (seed.RunRecord, error)
	Status() seed.Status
}

// History lists recorded sync runs. *history.Store satisfies it.
type History interface {
	List(ctx context.Context, limit int) ([]seed.RunRecord, error)
}

// HealthChecker pings a backing database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the handler collaborators. History may be nil.
type Deps struct {
	Catalog Catalog
	Sync    SyncService
	History History
	DB      HealthChecker
	Cache   *cache.Cache
	Logger  *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	catalog Catalog
	sync    SyncService
	history History
	db      HealthChecker
	cache   *cache.Cache
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	h := &Handler{
		catalog: d.Catalog,
		sync:    d.Sync,
		history: d.History,
		db:      d.DB,
		cache:   d.Cache,
		logger:  d.Logger,
	}
	if h.cache == nil {
		h.cache = cache.New(false, 1)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "PokeVault Catalog API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies document store connectivity.
// @Summary Database health check
// @Description Verifies MongoDB connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// fail maps store errors to responses. Missing entities become 404 with
// notFound as the message; anything else is a 500 carrying the error text.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFound)
		return
	}
	h.logger.Error("Request failed", "path", r.URL.Path, "error", err)
	respond.Error(w, http.StatusInternalServerError, err.Error())
}

// cached serves a success envelope from the response cache, loading and
// storing it on a miss. Honors If-None-Match.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func(context.Context) (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := load(r.Context())
	if err != nil {
		h.fail(w, r, err, "Not found")
		return
	}
	raw, err := respond.Marshal(v)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	etag := h.cache.Set(key, raw, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, raw, etag, ttl, false)
}
