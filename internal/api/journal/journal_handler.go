package journal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/journalhub/internal/api"
	"github.com/FACorreiaa/journalhub/internal/api/auth"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListPublic(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	journalService JournalService
	logger         *slog.Logger
}

func NewHandlerImpl(journalService JournalService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		journalService: journalService,
		logger:         logger,
	}
}

// Create godoc
// @Summary      Create journal entry
// @Tags         Journal
// @Accept       json
// @Produce      json
// @Param        entry body types.CreateJournalEntryRequest true "Entry"
// @Success      201 {object} types.JournalEntry
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /journal-entries [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Create"))

	claims, ok := auth.GetClaimsFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.CreateJournalEntryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.Validate(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.journalService.Create(ctx, Author{ID: claims.UserID, Nickname: claims.Nickname}, req)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid Token")
			return
		}
		l.ErrorContext(ctx, "Failed to create journal entry", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, entry)
}

// ListByUser godoc
// @Summary      List own journal entries
// @Description  Newest first. Default limit 20, maximum 100.
// @Tags         Journal
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} types.JournalEntryList
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /journal-entries/user [get]
func (h *HandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	list, err := h.journalService.ListByUser(ctx, userID, api.ParsePage(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list journal entries", slog.String("HandlerImpl", "ListByUser"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve journal entries")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// Get godoc
// @Summary      Get journal entry
// @Description  Returns the entry if the caller owns it or it is public.
// @Tags         Journal
// @Produce      json
// @Param        id path string true "Entry ID"
// @Success      200 {object} types.JournalEntry
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Journal entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /journal-entries/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, err := h.journalService.GetByID(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeEntryError(w, r, "Get", err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entry)
}

// Update godoc
// @Summary      Update journal entry
// @Tags         Journal
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID"
// @Param        entry body types.UpdateJournalEntryParams true "Fields to change"
// @Success      200 {object} types.JournalEntry
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Journal entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /journal-entries/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateJournalEntryParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.Validate(params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.journalService.Update(ctx, userID, chi.URLParam(r, "id"), params)
	if err != nil {
		h.writeEntryError(w, r, "Update", err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entry)
}

// Delete godoc
// @Summary      Delete journal entry
// @Tags         Journal
// @Produce      json
// @Param        id path string true "Entry ID"
// @Success      200 {object} types.Response
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Journal entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /journal-entries/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.journalService.Delete(ctx, userID, chi.URLParam(r, "id")); err != nil {
		h.writeEntryError(w, r, "Delete", err)
		return
	}

	api.MessageResponse(w, r, http.StatusOK, "Journal entry deleted")
}

// ListPublic godoc
// @Summary      List public journal entries
// @Tags         Journal
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} types.JournalEntryList
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /public/journal-entries [get]
func (h *HandlerImpl) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.journalService.ListPublic(ctx, api.ParsePage(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list public entries", slog.String("HandlerImpl", "ListPublic"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve journal entries")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// Search godoc
// @Summary      Search own journal entries
// @Description  Full text search over title and content, best matches first.
// @Tags         Journal
// @Produce      json
// @Param        q query string true "Search terms"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} types.JournalEntryList
// @Failure      400 {object} types.Response "Search query is required"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /search/journal-entries [get]
func (h *HandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	list, err := h.journalService.Search(ctx, userID, r.URL.Query().Get("q"), api.ParsePage(r))
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Search query is required")
			return
		}
		h.logger.ErrorContext(ctx, "Search failed", slog.String("HandlerImpl", "Search"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search journal entries")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

func (h *HandlerImpl) writeEntryError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Journal entry not found")
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, "No fields to update")
	default:
		h.logger.ErrorContext(r.Context(), "Journal entry operation failed", slog.String("HandlerImpl", op), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
