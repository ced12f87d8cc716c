package journal

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/journalhub/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockJournalRepo struct {
	mock.Mock
}

func entryResult(args mock.Arguments) (*types.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.JournalEntry), args.Error(1)
}

func entriesResult(args mock.Arguments) ([]types.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.JournalEntry), args.Error(1)
}

func (m *MockJournalRepo) Create(ctx context.Context, entry *types.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalRepo) FindByID(ctx context.Context, entryID string) (*types.JournalEntry, error) {
	return entryResult(m.Called(ctx, entryID))
}

func (m *MockJournalRepo) ListByAuthor(ctx context.Context, authorID string, page types.Page) ([]types.JournalEntry, error) {
	return entriesResult(m.Called(ctx, authorID, page))
}

func (m *MockJournalRepo) ListPublic(ctx context.Context, page types.Page) ([]types.JournalEntry, error) {
	return entriesResult(m.Called(ctx, page))
}

func (m *MockJournalRepo) Update(ctx context.Context, authorID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error) {
	return entryResult(m.Called(ctx, authorID, entryID, params))
}

func (m *MockJournalRepo) Delete(ctx context.Context, authorID, entryID string) error {
	return m.Called(ctx, authorID, entryID).Error(0)
}

func (m *MockJournalRepo) Search(ctx context.Context, authorID, query string, page types.Page) ([]types.JournalEntry, error) {
	return entriesResult(m.Called(ctx, authorID, query, page))
}

func (m *MockJournalRepo) DeleteAllForUser(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, data map[string]string) {
	m.Called(ctx, eventType, key, data)
}

func (m *MockPublisher) Close() error { return m.Called().Error(0) }

type MockJournalService struct {
	mock.Mock
}

func listResult(args mock.Arguments) (*types.JournalEntryList, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.JournalEntryList), args.Error(1)
}

func (m *MockJournalService) Create(ctx context.Context, author Author, req types.CreateJournalEntryRequest) (*types.JournalEntry, error) {
	return entryResult(m.Called(ctx, author, req))
}

func (m *MockJournalService) ListByUser(ctx context.Context, userID string, page types.Page) (*types.JournalEntryList, error) {
	return listResult(m.Called(ctx, userID, page))
}

func (m *MockJournalService) GetByID(ctx context.Context, callerID, entryID string) (*types.JournalEntry, error) {
	return entryResult(m.Called(ctx, callerID, entryID))
}

func (m *MockJournalService) Update(ctx context.Context, callerID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error) {
	return entryResult(m.Called(ctx, callerID, entryID, params))
}

func (m *MockJournalService) Delete(ctx context.Context, callerID, entryID string) error {
	return m.Called(ctx, callerID, entryID).Error(0)
}

func (m *MockJournalService) ListPublic(ctx context.Context, page types.Page) (*types.JournalEntryList, error) {
	return listResult(m.Called(ctx, page))
}

func (m *MockJournalService) Search(ctx context.Context, userID, query string, page types.Page) (*types.JournalEntryList, error) {
	return listResult(m.Called(ctx, userID, query, page))
}

func (m *MockJournalService) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
