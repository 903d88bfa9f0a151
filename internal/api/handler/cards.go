package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pokevault/catalog-api/internal/api/respond"
	"github.com/pokevault/catalog-api/internal/cache"
	"github.com/pokevault/catalog-api/internal/query"
	"github.com/pokevault/catalog-api/internal/store"
)

// ListCards returns a filtered, sorted page of cards.
// @Summary List cards
// @Description Advanced card search. Unknown or malformed filters are ignored. Type filters accept French, English and unaccented spellings.
// @Tags cards
// @Produce json
// @Param page query int false "Page number (min 1)" default(1)
// @Param limit query int false "Page size (1-500)" default(20)
// @Param name query string false "Case-insensitive name substring"
// @Param types query string false "Comma-separated energy types (alias: type)"
// @Param rarity query string false "Exact rarity"
// @Param setId query string false "Set id"
// @Param serieId query string false "Serie id (ignored when setId is present)"
// @Param hp query number false "Exact HP (overrides hpMin/hpMax)"
// @Param hpMin query number false "Minimum HP"
// @Param hpMax query number false "Maximum HP"
// @Param retreatMin query number false "Minimum retreat cost"
// @Param retreatMax query number false "Maximum retreat cost"
// @Param weaknesses query string false "Comma-separated weakness types (alias: weakness)"
// @Param resistances query string false "Comma-separated resistance types (alias: resistance)"
// @Param illustrator query string false "Illustrator substring (alias: artist)"
// @Param dexId query string false "National dex number (alias: pokedex)"
// @Param legalities query string false "Comma-separated formats (alias: legality)"
// @Param legalStatus query string false "Required status for each format" default(legal)
// @Param sort query string false "name, hp, number, localId or releaseDate; prefix - for descending" default(name)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	f := query.ParseCardFilter(r.URL.Query())
	page, err := h.catalog.FindCards(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Paged(w, page.Data, page.Pagination)
}

// GetCardMetadata returns the distinct rarities and legality formats.
// @Summary Card filter metadata
// @Description Distinct sorted rarities and legality format names across all cards. Cached; supports If-None-Match.
// @Tags cards
// @Produce json
// @Success 200 {object} respond.Envelope
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /cards/metadata [get]
func (h *Handler) GetCardMetadata(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "cards:metadata", cache.TTLMetadata, func(ctx context.Context) (interface{}, error) {
		return h.catalog.CardMetadata(ctx)
	})
}

// SearchCards returns a short list of cards whose name contains the term.
// @Summary Quick card search
// @Description Case-insensitive name search returning a compact projection.
// @Tags cards
// @Produce json
// @Param term path string true "Name fragment"
// @Param limit query int false "Maximum results (1-500)" default(10)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /cards/search/{term} [get]
func (h *Handler) SearchCards(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(chi.URLParam(r, "term"))
	limit := query.ClampLimit(r.URL.Query().Get("limit"), store.DefaultSearchLimit)

	cards, err := h.catalog.SearchCards(r.Context(), term, limit)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	respond.Counted(w, cards, len(cards))
}

// GetRandomCard returns one card chosen uniformly at random.
// @Summary Random card
// @Tags cards
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /cards/random/card [get]
func (h *Handler) GetRandomCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.catalog.RandomCard(r.Context())
	if err != nil {
		h.fail(w, r, err, "No cards available")
		return
	}
	respond.OK(w, card)
}

// GetCard returns one card by id.
// @Summary Get card
// @Tags cards
// @Produce json
// @Param id path string true "Card id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /cards/{id} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.catalog.CardByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Card not found")
		return
	}
	respond.OK(w, card)
}
