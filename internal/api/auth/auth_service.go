package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/config"
	"github.com/FACorreiaa/journalhub/internal/notify"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// UserStore is the part of the credential store the auth flows need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	FindByID(ctx context.Context, userID string) (*types.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email, baseURL string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AuthServiceImpl struct {
	logger     *slog.Logger
	users      UserStore
	tokens     TokenService
	notifier   notify.Notifier
	bcryptCost int
}

func NewAuthService(users UserStore, tokens TokenService, notifier notify.Notifier, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		bcryptCost: cfg.Security.BcryptCost,
	}
}

// Login returns a fresh session token. Accounts being deleted are reported as not found.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"))
	status := "failure"
	defer func() {
		metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "Login for unknown email")
			return "", types.ErrNotFound
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return "", fmt.Errorf("error fetching user: %w", err)
	}
	if user.DeletionStartedAt != nil {
		return "", types.ErrNotFound
	}

	if err := CheckPassword(user.Password, password); err != nil {
		l.InfoContext(ctx, "Invalid credentials", slog.String("userID", user.ID.Hex()))
		return "", err
	}

	token, err := s.tokens.Issue(types.UserClaims{
		UserID:   user.ID.Hex(),
		Nickname: user.Nickname,
		FullName: user.FullName,
		Email:    user.Email,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return "", err
	}

	status = "success"
	span.SetAttributes(attribute.String("user.id", user.ID.Hex()))
	span.SetStatus(codes.Ok, "Logged in")
	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.Hex()))
	return token, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.tokens.Revoke(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "Logout failed", slog.String("method", "Logout"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "revoke failed")
		return err
	}
	span.SetStatus(codes.Ok, "Logged out")
	return nil
}

// RequestPasswordReset mails a one hour reset link to the account owner.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RequestPasswordReset")
	defer span.End()

	l := s.logger.With(slog.String("method", "RequestPasswordReset"))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
			span.RecordError(err)
		}
		return err
	}

	token, err := s.tokens.IssueResetToken(user.Email, user.ID.Hex())
	if err != nil {
		span.RecordError(err)
		return err
	}

	link := baseURL + "/api/auth/reset-password?token=" + url.QueryEscape(token)
	s.notifier.PasswordReset(ctx, user.Email, user.FullName, link)

	l.InfoContext(ctx, "Password reset requested", slog.String("userID", user.ID.Hex()))
	span.SetStatus(codes.Ok, "Reset email queued")
	return nil
}

// ResetPassword sets a new password using a reset token. Each reset token is accepted once.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ResetPassword")
	defer span.End()

	l := s.logger.With(slog.String("method", "ResetPassword"))

	claims, err := s.tokens.Verify(ctx, token, types.PurposePasswordReset)
	if err != nil {
		if IsTokenError(err) {
			l.InfoContext(ctx, "Reset token rejected", slog.Any("error", err))
			return types.ErrInvalidToken
		}
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("user.id", claims.UserID))

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		return err
	}

	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	// Burn the token first so a concurrent second use loses here. If the update
	// below fails the link is spent and the user has to request a new one.
	if err := s.tokens.Consume(ctx, token); err != nil {
		if IsTokenError(err) {
			return types.ErrInvalidToken
		}
		span.RecordError(err)
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID.Hex(), hash); err != nil {
		l.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("error updating password: %w", err)
	}

	s.notifier.PasswordChanged(ctx, user.Email, user.FullName)
	l.InfoContext(ctx, "Password reset", slog.String("userID", user.ID.Hex()))
	span.SetStatus(codes.Ok, "Password reset")
	return nil
}

