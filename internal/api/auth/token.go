package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/config"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenService issues and checks signed bearer tokens and owns their revocation.
type TokenService interface {
	Issue(user types.UserClaims) (string, error)
	IssueResetToken(email, userID string) (string, error)
	// DecodeExpiry reads exp without verifying the signature.
	DecodeExpiry(token string) (time.Time, error)
	// Parse checks signature, expiry, issuer and purpose. Revocation is not consulted.
	Parse(token, purpose string) (*types.Claims, error)
	// Verify is Parse plus the revocation and password change checks.
	Verify(ctx context.Context, token, purpose string) (*types.Claims, error)
	// Superseded reports whether the token was issued before the user's last password change.
	Superseded(ctx context.Context, claims *types.Claims) (bool, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Revoke blacklists the token until its own expiry. Revoking twice is not an error.
	Revoke(ctx context.Context, token string) error
	// Consume revokes the token and fails with types.ErrTokenRevoked if it was already revoked.
	Consume(ctx context.Context, token string) error
}

// PasswordChanges looks up when a user last changed their password.
type PasswordChanges interface {
	PasswordChangedAt(ctx context.Context, userID string) (time.Time, error)
}

type TokenServiceImpl struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	revoked    RevocationRepo
	passwords  PasswordChanges
	logger     *slog.Logger
	now        func() time.Time
}

func NewTokenService(cfg config.JWTConfig, revoked RevocationRepo, passwords PasswordChanges, logger *slog.Logger) *TokenServiceImpl {
	if cfg.SecretKey == "" {
		panic("JWT Secret Key cannot be empty")
	}
	if revoked == nil || passwords == nil {
		panic("token service requires revocation and password change stores")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 8 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &TokenServiceImpl{
		secret:     []byte(cfg.SecretKey),
		issuer:     cfg.Issuer,
		sessionTTL: cfg.SessionTTL,
		resetTTL:   cfg.ResetTTL,
		revoked:    revoked,
		passwords:  passwords,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TokenServiceImpl) Issue(user types.UserClaims) (string, error) {
	return s.sign(types.Claims{
		UserID:   user.UserID,
		Nickname: user.Nickname,
		FullName: user.FullName,
		Email:    user.Email,
		Purpose:  types.PurposeSession,
	}, s.sessionTTL)
}

func (s *TokenServiceImpl) IssueResetToken(email, userID string) (string, error) {
	return s.sign(types.Claims{
		UserID:  userID,
		Email:   email,
		Purpose: types.PurposePasswordReset,
	}, s.resetTTL)
}

func (s *TokenServiceImpl) sign(claims types.Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

func (s *TokenServiceImpl) DecodeExpiry(token string) (time.Time, error) {
	claims := &types.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, types.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, types.ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

func (s *TokenServiceImpl) Parse(token, purpose string) (*types.Claims, error) {
	claims := &types.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("Token rejected", slog.Any("error", err))
		return nil, types.ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.UserID == "" {
		s.logger.Debug("Token purpose mismatch", slog.String("expected", purpose), slog.String("actual", claims.Purpose))
		return nil, types.ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenServiceImpl) Verify(ctx context.Context, token, purpose string) (*types.Claims, error) {
	claims, err := s.Parse(token, purpose)
	if err != nil {
		return nil, err
	}
	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, types.ErrTokenRevoked
	}
	superseded, err := s.Superseded(ctx, claims)
	if err != nil {
		return nil, err
	}
	if superseded {
		return nil, types.ErrInvalidToken
	}
	return claims, nil
}

// iat only has second precision, so the change time is truncated before comparing.
// A token issued in the same second as the change is still accepted.
func (s *TokenServiceImpl) Superseded(ctx context.Context, claims *types.Claims) (bool, error) {
	changedAt, err := s.passwords.PasswordChangedAt(ctx, claims.UserID)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking password change time: %w", err)
	}
	if changedAt.IsZero() {
		return false, nil
	}
	if claims.IssuedAt == nil {
		return true, nil
	}
	return claims.IssuedAt.Time.Before(changedAt.Truncate(time.Second)), nil
}

func (s *TokenServiceImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := s.revoked.Contains(ctx, token)
	if err != nil {
		return false, fmt.Errorf("error checking token revocation: %w", err)
	}
	return revoked, nil
}

func (s *TokenServiceImpl) Revoke(ctx context.Context, token string) error {
	_, err := s.revoke(ctx, token)
	return err
}

func (s *TokenServiceImpl) Consume(ctx context.Context, token string) error {
	inserted, err := s.revoke(ctx, token)
	if err != nil {
		return err
	}
	if !inserted {
		return types.ErrTokenRevoked
	}
	return nil
}

func (s *TokenServiceImpl) revoke(ctx context.Context, token string) (bool, error) {
	ctx, span := otel.Tracer("TokenService").Start(ctx, "Revoke")
	defer span.End()

	// the registry entry lives exactly as long as the token could still verify
	expiresAt, err := s.DecodeExpiry(token)
	if err != nil {
		span.SetStatus(codes.Error, "undecodable token")
		return false, err
	}
	inserted, err := s.revoked.Add(ctx, token, expiresAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke token")
		return false, fmt.Errorf("error revoking token: %w", err)
	}
	if inserted {
		metrics.Get().RevokedTokensTotal.Add(ctx, 1)
	}
	span.SetStatus(codes.Ok, "Token revoked")
	return inserted, nil
}

// IsTokenError reports whether err means the presented token cannot be used.
func IsTokenError(err error) bool {
	return errors.Is(err, types.ErrInvalidToken) || errors.Is(err, types.ErrTokenRevoked)
}
