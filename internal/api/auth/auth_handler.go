package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/journalhub/internal/api"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RequestPasswordReset(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a session token valid for 8 hours.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body types.LoginRequest true "Credentials"
// @Success      200 {object} types.TokenResponse
// @Failure      400 {object} types.Response "Invalid credentials"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /user/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.Validate(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, types.ErrInvalidCredentials):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid credentials")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{Token: token})
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented session token until it expires.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response
// @Failure      400 {object} types.Response "Invalid Token"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /user/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := GetTokenFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.authService.Logout(ctx, token); err != nil {
		if errors.Is(err, types.ErrInvalidToken) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid Token")
			return
		}
		h.logger.ErrorContext(ctx, "Logout failed", slog.String("HandlerImpl", "Logout"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.MessageResponse(w, r, http.StatusOK, "Logout successful")
}

// RequestPasswordReset godoc
// @Summary      Request password reset
// @Description  Emails a single-use reset link valid for one hour. Limited to 5 requests per 15 minutes per IP.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RequestPasswordResetRequest true "Account email"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response "User not found"
// @Failure      429 {object} types.Response "Too many requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/request-password-reset [post]
func (h *HandlerImpl) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.RequestPasswordResetRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.Validate(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.RequestPasswordReset(ctx, req.Email, api.BaseURL(r)); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Password reset request failed", slog.String("HandlerImpl", "RequestPasswordReset"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.MessageResponse(w, r, http.StatusOK, "Password reset email sent")
}

// ResetPassword godoc
// @Summary      Reset password
// @Description  Sets a new password using the token from the reset email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token query string true "Reset token"
// @Param        body body types.ResetPasswordRequest true "New password"
// @Success      200 {object} types.Response
// @Failure      400 {object} types.Response "Invalid reset token"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/reset-password [post]
func (h *HandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid reset token")
		return
	}

	var req types.ResetPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.Validate(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ResetPassword(ctx, token, req.Password); err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidToken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid reset token")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			h.logger.ErrorContext(ctx, "Password reset failed", slog.String("HandlerImpl", "ResetPassword"), slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.MessageResponse(w, r, http.StatusOK, "Password reset successful")
}
