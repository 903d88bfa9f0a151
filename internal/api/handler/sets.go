package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pokevault/catalog-api/internal/api/respond"
	"github.com/pokevault/catalog-api/internal/cache"
	"github.com/pokevault/catalog-api/internal/query"
)

// defaultSetCardsLimit is the page size of a set's card list.
const defaultSetCardsLimit = 100

// ListSets returns a page of sets.
// @Summary List sets
// @Tags sets
// @Produce json
// @Param page query int false "Page number (min 1)" default(1)
// @Param limit query int false "Page size (1-500)" default(50)
// @Param name query string false "Case-insensitive name substring"
// @Param serieId query string false "Serie id"
// @Param sort query string false "releaseDate, name or id; prefix - for descending" default(releaseDate)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /sets [get]
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	f := query.ParseSetFilter(r.URL.Query())
	page, err := h.catalog.FindSets(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Paged(w, page.Data, page.Pagination)
}

// GetSetsBySeries returns every set grouped under its serie.
// @Summary Sets grouped by series
// @Description Series sorted by name, sets inside each serie by release date. Cached; supports If-None-Match.
// @Tags sets
// @Produce json
// @Success 200 {object} respond.Envelope
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /sets/by-series [get]
func (h *Handler) GetSetsBySeries(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "sets:by-series", cache.TTLBySeries, func(ctx context.Context) (interface{}, error) {
		return h.catalog.SetsGroupedBySeries(ctx)
	})
}

// GetRandomSet returns one set chosen uniformly at random.
// @Summary Random set
// @Tags sets
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /sets/random/set [get]
func (h *Handler) GetRandomSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.catalog.RandomSet(r.Context())
	if err != nil {
		h.fail(w, r, err, "No sets available")
		return
	}
	respond.OK(w, set)
}

// GetSet returns one set by id.
// @Summary Get set
// @Tags sets
// @Produce json
// @Param id path string true "Set id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /sets/{id} [get]
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.catalog.SetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Set not found")
		return
	}
	respond.OK(w, set)
}

// GetSetCards returns the cards of a set in collector-number order.
// @Summary Cards of a set
// @Tags sets
// @Produce json
// @Param id path string true "Set id"
// @Param page query int false "Page number (min 1)" default(1)
// @Param limit query int false "Page size (1-500)" default(100)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /sets/{id}/cards [get]
func (h *Handler) GetSetCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.CardFilter{
		Page:  query.ClampPage(q.Get("page")),
		Limit: query.ClampLimit(q.Get("limit"), defaultSetCardsLimit),
		SetID: chi.URLParam(r, "id"),
		Sort:  query.Sort{Field: "localId"},
	}
	page, err := h.catalog.FindCards(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Paged(w, page.Data, page.Pagination)
}
