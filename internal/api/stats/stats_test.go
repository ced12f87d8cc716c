package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/FACorreiaa/journalhub/internal/types"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return m.Called(ctx, rp).Error(0)
}

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounter) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func setupStatsTest() (*StatsServiceImpl, *MockPinger, *MockCounter, *MockCounter) {
	pinger, users, entries := new(MockPinger), new(MockCounter), new(MockCounter)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStatsService(pinger, users, entries, logger), pinger, users, entries
}

func TestStatsServiceImpl_Status(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		svc, pinger, _, _ := setupStatsTest()
		pinger.On("Ping", mock.Anything, mock.Anything).Return(nil).Once()

		assert.Equal(t, types.StatusResponse{Status: "ok", DB: "connected"}, svc.Status(context.Background()))
	})

	t.Run("disconnected", func(t *testing.T) {
		svc, pinger, _, _ := setupStatsTest()
		pinger.On("Ping", mock.Anything, mock.Anything).Return(errors.New("server selection timeout")).Once()

		assert.Equal(t, types.StatusResponse{Status: "ok", DB: "disconnected"}, svc.Status(context.Background()))
	})
}

func TestStatsServiceImpl_Global(t *testing.T) {
	t.Run("counts both collections", func(t *testing.T) {
		svc, _, users, entries := setupStatsTest()
		users.On("Count", mock.Anything).Return(int64(2), nil).Once()
		entries.On("Count", mock.Anything).Return(int64(9), nil).Once()

		resp, err := svc.Global(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &types.StatsResponse{Users: 2, JournalEntries: 9}, resp)
	})

	t.Run("repeat calls reuse the cached counts", func(t *testing.T) {
		svc, _, users, entries := setupStatsTest()
		users.On("Count", mock.Anything).Return(int64(4), nil).Once()
		entries.On("Count", mock.Anything).Return(int64(12), nil).Once()

		first, err := svc.Global(context.Background())
		require.NoError(t, err)
		second, err := svc.Global(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		users.AssertNumberOfCalls(t, "Count", 1)
		entries.AssertNumberOfCalls(t, "Count", 1)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		svc, _, users, entries := setupStatsTest()
		users.On("Count", mock.Anything).Return(int64(0), errors.New("db down")).Once()
		users.On("Count", mock.Anything).Return(int64(1), nil).Once()
		entries.On("Count", mock.Anything).Return(int64(5), nil)

		_, err := svc.Global(context.Background())
		require.Error(t, err)

		resp, err := svc.Global(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &types.StatsResponse{Users: 1, JournalEntries: 5}, resp)
	})

	t.Run("one count fails", func(t *testing.T) {
		svc, _, users, entries := setupStatsTest()
		users.On("Count", mock.Anything).Return(int64(0), errors.New("db down")).Once()
		entries.On("Count", mock.Anything).Return(int64(9), nil).Maybe()

		_, err := svc.Global(context.Background())
		require.Error(t, err)
	})
}

func TestHandlerImpl(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		svc, pinger, _, _ := setupStatsTest()
		pinger.On("Ping", mock.Anything, mock.Anything).Return(nil).Once()
		h := NewHandlerImpl(svc, svc.logger)

		rr := httptest.NewRecorder()
		h.Status(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","db":"connected"}`, rr.Body.String())
	})

	t.Run("stats failure", func(t *testing.T) {
		svc, _, users, entries := setupStatsTest()
		users.On("Count", mock.Anything).Return(int64(0), errors.New("db down")).Once()
		entries.On("Count", mock.Anything).Return(int64(0), nil).Maybe()
		h := NewHandlerImpl(svc, svc.logger)

		rr := httptest.NewRecorder()
		h.Global(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("user entry count", func(t *testing.T) {
		svc, _, _, entries := setupStatsTest()
		entries.On("CountByAuthor", mock.Anything, "665f1c2e9b1e8a3d4c5b6a70").Return(int64(3), nil).Once()
		h := NewHandlerImpl(svc, svc.logger)

		req := httptest.NewRequest(http.MethodGet, "/api/user/665f1c2e9b1e8a3d4c5b6a70/journal-entries/count", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "665f1c2e9b1e8a3d4c5b6a70")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rr := httptest.NewRecorder()
		h.UserEntryCount(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "665f1c2e9b1e8a3d4c5b6a70", body["userId"])
		assert.Equal(t, float64(3), body["userEntries"])
	})
}
