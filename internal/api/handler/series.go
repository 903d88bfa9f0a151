package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pokevault/catalog-api/internal/api/respond"
	"github.com/pokevault/catalog-api/internal/query"
)

// ListSeries returns a page of series.
// @Summary List series
// @Tags series
// @Produce json
// @Param page query int false "Page number (min 1)" default(1)
// @Param limit query int false "Page size (1-500)" default(50)
// @Param name query string false "Case-insensitive name substring"
// @Param sort query string false "name or id; prefix - for descending" default(name)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /series [get]
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	f := query.ParseSerieFilter(r.URL.Query())
	page, err := h.catalog.FindSeries(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Paged(w, page.Data, page.Pagination)
}

// GetRandomSerie returns one serie chosen uniformly at random.
// @Summary Random serie
// @Tags series
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /series/random/serie [get]
func (h *Handler) GetRandomSerie(w http.ResponseWriter, r *http.Request) {
	serie, err := h.catalog.RandomSerie(r.Context())
	if err != nil {
		h.fail(w, r, err, "No series available")
		return
	}
	respond.OK(w, serie)
}

// GetSerie returns one serie by id.
// @Summary Get serie
// @Tags series
// @Produce json
// @Param id path string true "Serie id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /series/{id} [get]
func (h *Handler) GetSerie(w http.ResponseWriter, r *http.Request) {
	serie, err := h.catalog.SerieByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Serie not found")
		return
	}
	respond.OK(w, serie)
}

// GetSerieSets returns every set of a serie, oldest first.
// @Summary Sets of a serie
// @Tags series
// @Produce json
// @Param id path string true "Serie id"
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /series/{id}/sets [get]
func (h *Handler) GetSerieSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.catalog.SetsBySerie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Counted(w, sets, len(sets))
}
