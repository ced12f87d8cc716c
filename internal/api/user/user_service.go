package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/config"
	"github.com/FACorreiaa/journalhub/internal/api/auth"
	"github.com/FACorreiaa/journalhub/internal/events"
	"github.com/FACorreiaa/journalhub/internal/notify"
	"github.com/FACorreiaa/journalhub/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// EntryRemover deletes every journal entry owned by a user.
type EntryRemover interface {
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// UserService defines the business logic contract for account operations.
type UserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (string, error)
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error)
	ChangePassword(ctx context.Context, userID, token, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, token string) error
	ResumePendingDeletions(ctx context.Context) (int, error)
}

type UserServiceImpl struct {
	logger     *slog.Logger
	repo       UserRepo
	entries    EntryRemover
	tokens     auth.TokenService
	notifier   notify.Notifier
	publisher  events.Publisher
	bcryptCost int
	now        func() time.Time
}

func NewUserService(
	repo UserRepo,
	entries EntryRemover,
	tokens auth.TokenService,
	notifier notify.Notifier,
	publisher events.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		logger:     logger,
		repo:       repo,
		entries:    entries,
		tokens:     tokens,
		notifier:   notifier,
		publisher:  publisher,
		bcryptCost: cfg.Security.BcryptCost,
		now:        time.Now,
	}
}

// Register creates an account and returns the new user id.
func (s *UserServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (string, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"))
	start := time.Now()
	status := "failure"
	defer func() {
		m := metrics.Get()
		attrs := metric.WithAttributes(attribute.String("status", status))
		m.RegisterRequestsTotal.Add(ctx, 1, attrs)
		m.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		l.InfoContext(ctx, "Email already registered")
		return "", types.ErrConflict
	case !errors.Is(err, types.ErrNotFound):
		l.ErrorContext(ctx, "Failed to look up email", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return "", fmt.Errorf("error checking existing user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	user := &types.User{
		FullName: req.FullName,
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: hash,
		Role:     types.RoleUser,
	}
	userID, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return "", err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return "", fmt.Errorf("error creating user: %w", err)
	}

	s.notifier.Welcome(ctx, user.Email, user.FullName)
	s.publisher.Publish(ctx, events.UserRegistered, userID, map[string]string{"nickname": user.Nickname})

	status = "success"
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetStatus(codes.Ok, "User registered")
	l.InfoContext(ctx, "User registered", slog.String("userID", userID))
	return userID, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetProfile", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetProfile"), slog.String("userID", userID))
	l.DebugContext(ctx, "Fetching user profile")

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user profile")
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}
	if user.DeletionStartedAt != nil {
		return nil, types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "User profile fetched")
	return user.Profile(), nil
}

// UpdateProfile applies a partial update and mails the account's current address.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID))

	if params.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", types.ErrValidation)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrConflict) {
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user profile")
		return nil, fmt.Errorf("error updating user profile: %w", err)
	}

	s.notifier.ProfileUpdated(ctx, user.Email, user.FullName)
	l.InfoContext(ctx, "User profile updated")
	span.SetStatus(codes.Ok, "User profile updated")
	return user.Profile(), nil
}

// ChangePassword replaces the password and logs out the session that asked for it.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID, token, oldPassword, newPassword string) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ChangePassword", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID))

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		return err
	}

	if err := auth.CheckPassword(user.Password, oldPassword); err != nil {
		l.InfoContext(ctx, "Old password mismatch")
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		l.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("error updating password: %w", err)
	}

	// The password change time already rejects this token; revoking it also covers
	// a token issued within the same second.
	if err := s.tokens.Revoke(ctx, token); err != nil {
		l.ErrorContext(ctx, "Failed to revoke session token after password change", slog.Any("error", err))
		span.RecordError(err)
	}

	s.notifier.PasswordChanged(ctx, user.Email, user.FullName)
	l.InfoContext(ctx, "Password changed")
	span.SetStatus(codes.Ok, "Password changed")
	return nil
}

// DeleteAccount removes the user's entries, then the user, then revokes the session.
// The deletion marker is written first so an interrupted run is finished at next startup.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID, token string) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteAccount", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteAccount"), slog.String("userID", userID))

	if _, err := s.tokens.DecodeExpiry(token); err != nil {
		l.WarnContext(ctx, "Undecodable token on account deletion", slog.Any("error", err))
		return types.ErrInvalidToken
	}

	user, err := s.repo.MarkDeletionStarted(ctx, userID, s.now())
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to mark user for deletion", slog.Any("error", err))
			span.RecordError(err)
		}
		return err
	}

	if err := s.purge(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deletion failed")
		return err
	}

	if err := s.tokens.Revoke(ctx, token); err != nil {
		// the account is gone; a surviving token fails at the next lookup anyway
		l.WarnContext(ctx, "Failed to revoke token after deletion", slog.Any("error", err))
	}

	span.SetStatus(codes.Ok, "Account deleted")
	return nil
}

// purge deletes entries then the user record, and announces the deletion.
func (s *UserServiceImpl) purge(ctx context.Context, user *types.User) error {
	l := s.logger.With(slog.String("method", "purge"), slog.String("userID", user.ID.Hex()))
	userID := user.ID.Hex()

	deleted, err := s.entries.DeleteAllForUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete journal entries", slog.Any("error", err))
		return fmt.Errorf("error deleting journal entries: %w", err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, types.ErrNotFound) {
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		return fmt.Errorf("error deleting user: %w", err)
	}

	s.notifier.AccountDeleted(ctx, user.Email, user.FullName)
	s.publisher.Publish(ctx, events.UserDeleted, userID, nil)
	l.InfoContext(ctx, "Account deleted", slog.Int64("entries", deleted))
	return nil
}

// ResumePendingDeletions finishes deletions that were interrupted before the user record was removed.
func (s *UserServiceImpl) ResumePendingDeletions(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ResumePendingDeletions")
	defer span.End()

	l := s.logger.With(slog.String("method", "ResumePendingDeletions"))

	users, err := s.repo.ListPendingDeletion(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	var errs []error
	done := 0
	for i := range users {
		if err := s.purge(ctx, &users[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}

	if done > 0 || len(errs) > 0 {
		l.InfoContext(ctx, "Resumed pending deletions", slog.Int("completed", done), slog.Int("failed", len(errs)))
	}
	span.SetAttributes(attribute.Int("deletions.completed", done))
	return done, errors.Join(errs...)
}
