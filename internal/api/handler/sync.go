package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pokevault/catalog-api/internal/api/respond"
	"github.com/pokevault/catalog-api/internal/seed"
)

const defaultHistoryLimit = 20

// TriggerSync runs a sync and answers when it finishes.
// @Summary Trigger a sync
// @Description Mirrors the upstream catalog into the document store. Runs synchronously; the request is not cancelled if the client disconnects.
// @Tags sync
// @Produce json
// @Param phase query string false "all, series, sets or cards" default(all)
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	phase, err := seed.ParsePhase(r.URL.Query().Get("phase"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// A full sync outlives the server write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("Could not lift write deadline for sync", "error", err)
	}

	run, err := h.sync.Run(context.WithoutCancel(r.Context()), "manual", phase)
	switch {
	case errors.Is(err, seed.ErrSyncInProgress):
		respond.Error(w, http.StatusConflict, "A sync is already in progress")
	case err != nil:
		respond.Error(w, http.StatusInternalServerError, err.Error())
	default:
		respond.WriteJSONObject(w, http.StatusOK, respond.Envelope{
			Success: true,
			Message: "Sync completed",
			Data:    run,
		})
	}
}

// GetSyncStatus reports whether a sync is running and the last outcome.
// @Summary Sync status
// @Tags sync
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /sync/status [get]
func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, h.sync.Status())
}

// GetSyncHistory lists recorded sync runs, newest first. Empty when no
// history store is configured.
// @Summary Sync history
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum runs (1-500)" default(20)
// @Success 200 {object} respond.Envelope
// @Failure 500 {object} respond.ErrorResponse
// @Router /sync/history [get]
func (h *Handler) GetSyncHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = min(max(n, 1), 500)
	}

	runs := []seed.RunRecord{}
	if h.history != nil {
		var err error
		if runs, err = h.history.List(r.Context(), limit); err != nil {
			h.fail(w, r, err, "")
			return
		}
	}
	respond.Counted(w, runs, len(runs))
}
