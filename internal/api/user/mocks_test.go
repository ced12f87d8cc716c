package user

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/journalhub/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) user(args mock.Arguments) (*types.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *types.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, userID string) (*types.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.User, error) {
	return m.user(m.Called(ctx, userID, params))
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *MockUserRepo) PasswordChangedAt(ctx context.Context, userID string) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockUserRepo) MarkDeletionStarted(ctx context.Context, userID string, at time.Time) (*types.User, error) {
	return m.user(m.Called(ctx, userID, at))
}

func (m *MockUserRepo) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepo) ListPendingDeletion(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEntryRemover struct {
	mock.Mock
}

func (m *MockEntryRemover) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(user types.UserClaims) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IssueResetToken(email, userID string) (string, error) {
	args := m.Called(email, userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) DecodeExpiry(token string) (time.Time, error) {
	args := m.Called(token)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockTokenService) Parse(token, purpose string) (*types.Claims, error) {
	args := m.Called(token, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Claims), args.Error(1)
}

func (m *MockTokenService) Verify(ctx context.Context, token, purpose string) (*types.Claims, error) {
	args := m.Called(ctx, token, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Claims), args.Error(1)
}

func (m *MockTokenService) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenService) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenService) Superseded(ctx context.Context, claims *types.Claims) (bool, error) {
	args := m.Called(ctx, claims)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenService) Consume(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Welcome(ctx context.Context, to, name string) { m.Called(ctx, to, name) }
func (m *MockNotifier) ProfileUpdated(ctx context.Context, to, name string) {
	m.Called(ctx, to, name)
}
func (m *MockNotifier) PasswordChanged(ctx context.Context, to, name string) {
	m.Called(ctx, to, name)
}
func (m *MockNotifier) AccountDeleted(ctx context.Context, to, name string) {
	m.Called(ctx, to, name)
}
func (m *MockNotifier) PasswordReset(ctx context.Context, to, name, link string) {
	m.Called(ctx, to, name, link)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, data map[string]string) {
	m.Called(ctx, eventType, key, data)
}

func (m *MockPublisher) Close() error { return m.Called().Error(0) }

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req types.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID, token, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, token, oldPassword, newPassword).Error(0)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *MockUserService) ResumePendingDeletions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
