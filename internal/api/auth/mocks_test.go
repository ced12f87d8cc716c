package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/journalhub/config"
	"github.com/FACorreiaa/journalhub/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:  "test-secret",
		Issuer:     "journalhub",
		SessionTTL: 8 * time.Hour,
		ResetTTL:   time.Hour,
	}
}

// memRevocations is an in-memory RevocationRepo.
type memRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemRevocations() *memRevocations {
	return &memRevocations{entries: map[string]time.Time{}}
}

func (m *memRevocations) Add(_ context.Context, token string, expiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Fingerprint(token)
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = expiresAt
	return true, nil
}

func (m *memRevocations) Contains(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[Fingerprint(token)]
	return ok, nil
}

// memPasswordChanges is an in-memory PasswordChanges keyed by user id.
type memPasswordChanges struct {
	mu      sync.Mutex
	changed map[string]time.Time
}

func newMemPasswordChanges() *memPasswordChanges {
	return &memPasswordChanges{changed: map[string]time.Time{}}
}

func (m *memPasswordChanges) set(userID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed[userID] = at
}

func (m *memPasswordChanges) PasswordChangedAt(_ context.Context, userID string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed[userID], nil
}

type MockPasswordChanges struct {
	mock.Mock
}

func (m *MockPasswordChanges) PasswordChangedAt(ctx context.Context, userID string) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockRevocationRepo struct {
	mock.Mock
}

func (m *MockRevocationRepo) Add(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, token, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationRepo) Contains(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, userID string) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
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

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	return m.Called(ctx, email, baseURL).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}
