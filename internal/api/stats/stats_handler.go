package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/journalhub/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Global(w http.ResponseWriter, r *http.Request)
	UserEntryCount(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	statsService StatsService
	logger       *slog.Logger
}

func NewHandlerImpl(statsService StatsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		statsService: statsService,
		logger:       logger,
	}
}

// Status godoc
// @Summary      Service status
// @Tags         Stats
// @Produce      json
// @Success      200 {object} types.StatusResponse
// @Router       /status [get]
func (h *HandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.statsService.Status(r.Context()))
}

// Global godoc
// @Summary      Global counts
// @Tags         Stats
// @Produce      json
// @Success      200 {object} types.StatsResponse
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /stats [get]
func (h *HandlerImpl) Global(w http.ResponseWriter, r *http.Request) {
	resp, err := h.statsService.Global(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while fetching statistics")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// UserEntryCount godoc
// @Summary      Count a user's journal entries
// @Tags         Stats
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} types.UserEntryCountResponse
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /user/{id}/journal-entries/count [get]
func (h *HandlerImpl) UserEntryCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.statsService.UserEntryCount(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to count user entries", slog.String("HandlerImpl", "UserEntryCount"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while fetching user entries")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
