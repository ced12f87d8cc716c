package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/internal/events"
	"github.com/FACorreiaa/journalhub/internal/types"
)

// Ensure implementation satisfies the interface
var _ JournalService = (*JournalServiceImpl)(nil)

// Author identifies the authenticated writer of an entry.
type Author struct {
	ID       string
	Nickname string
}

type JournalService interface {
	Create(ctx context.Context, author Author, req types.CreateJournalEntryRequest) (*types.JournalEntry, error)
	ListByUser(ctx context.Context, userID string, page types.Page) (*types.JournalEntryList, error)
	// GetByID returns the entry if callerID owns it or it is public.
	GetByID(ctx context.Context, callerID, entryID string) (*types.JournalEntry, error)
	Update(ctx context.Context, callerID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error)
	Delete(ctx context.Context, callerID, entryID string) error
	ListPublic(ctx context.Context, page types.Page) (*types.JournalEntryList, error)
	Search(ctx context.Context, userID, query string, page types.Page) (*types.JournalEntryList, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type JournalServiceImpl struct {
	logger    *slog.Logger
	repo      JournalRepo
	publisher events.Publisher
}

func NewJournalService(repo JournalRepo, publisher events.Publisher, logger *slog.Logger) *JournalServiceImpl {
	return &JournalServiceImpl{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (s *JournalServiceImpl) Create(ctx context.Context, author Author, req types.CreateJournalEntryRequest) (*types.JournalEntry, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("user.id", author.ID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("userID", author.ID))

	authorID, err := primitive.ObjectIDFromHex(author.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed author id", types.ErrUnauthenticated)
	}

	entry := &types.JournalEntry{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   authorID,
		AuthorName: author.Nickname,
	}
	if req.Date != nil {
		entry.CreatedAt = req.Date.UTC()
	} else {
		entry.CreatedAt = time.Now().UTC()
	}
	if req.IsPublic != nil {
		entry.IsPublic = *req.IsPublic
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		l.ErrorContext(ctx, "Failed to create journal entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("error creating journal entry: %w", err)
	}

	metrics.Get().JournalEntriesCreatedTotal.Add(ctx, 1)
	s.publisher.Publish(ctx, events.JournalEntryCreated, entry.ID.Hex(), map[string]string{"authorId": author.ID})

	l.InfoContext(ctx, "Journal entry created", slog.String("entryID", entry.ID.Hex()))
	span.SetStatus(codes.Ok, "Journal entry created")
	return entry, nil
}

func (s *JournalServiceImpl) ListByUser(ctx context.Context, userID string, page types.Page) (*types.JournalEntryList, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "ListByUser", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	page = page.Normalize()
	entries, err := s.repo.ListByAuthor(ctx, userID, page)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list journal entries", slog.String("method", "ListByUser"), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}
	return &types.JournalEntryList{Entries: entries, Page: page.Page, Limit: page.Limit}, nil
}

func (s *JournalServiceImpl) GetByID(ctx context.Context, callerID, entryID string) (*types.JournalEntry, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "GetByID", trace.WithAttributes(
		attribute.String("entry.id", entryID),
	))
	defer span.End()

	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	if !entry.IsPublic && entry.AuthorID.Hex() != callerID {
		return nil, types.ErrNotFound
	}
	return entry, nil
}

func (s *JournalServiceImpl) Update(ctx context.Context, callerID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("entry.id", entryID),
	))
	defer span.End()

	if params.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", types.ErrValidation)
	}

	entry, err := s.repo.Update(ctx, callerID, entryID, params)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "Journal entry updated", slog.String("method", "Update"), slog.String("entryID", entryID))
	return entry, nil
}

func (s *JournalServiceImpl) Delete(ctx context.Context, callerID, entryID string) error {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("entry.id", entryID),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, callerID, entryID); err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		return err
	}

	s.publisher.Publish(ctx, events.JournalEntryDeleted, entryID, map[string]string{"authorId": callerID})
	s.logger.InfoContext(ctx, "Journal entry deleted", slog.String("method", "Delete"), slog.String("entryID", entryID))
	return nil
}

func (s *JournalServiceImpl) ListPublic(ctx context.Context, page types.Page) (*types.JournalEntryList, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "ListPublic")
	defer span.End()

	page = page.Normalize()
	entries, err := s.repo.ListPublic(ctx, page)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &types.JournalEntryList{Entries: entries, Page: page.Page, Limit: page.Limit}, nil
}

func (s *JournalServiceImpl) Search(ctx context.Context, userID, query string, page types.Page) (*types.JournalEntryList, error) {
	ctx, span := otel.Tracer("JournalService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", types.ErrValidation)
	}

	page = page.Normalize()
	entries, err := s.repo.Search(ctx, userID, query, page)
	if err != nil {
		s.logger.ErrorContext(ctx, "Search failed", slog.String("method", "Search"), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}
	return &types.JournalEntryList{Entries: entries, Page: page.Page, Limit: page.Limit}, nil
}

// DeleteAllForUser is used by account deletion.
func (s *JournalServiceImpl) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}
