package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/journalhub/app/db"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ StatsService = (*StatsServiceImpl)(nil)

const (
	pingTimeout = 2 * time.Second

	// Global counts scan both collections; repeated calls within this window reuse the last result.
	globalCacheTTL = 10 * time.Second
	globalCacheKey = "stats:global"
)

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type EntryCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type StatsService interface {
	Status(ctx context.Context) types.StatusResponse
	Global(ctx context.Context) (*types.StatsResponse, error)
	UserEntryCount(ctx context.Context, userID string) (*types.UserEntryCountResponse, error)
}

type StatsServiceImpl struct {
	logger  *slog.Logger
	db      database.Pinger
	users   UserCounter
	entries EntryCounter
	cache   *cache.Cache
}

func NewStatsService(db database.Pinger, users UserCounter, entries EntryCounter, logger *slog.Logger) *StatsServiceImpl {
	return &StatsServiceImpl{
		logger:  logger,
		db:      db,
		users:   users,
		entries: entries,
		cache:   cache.New(globalCacheTTL, 2*globalCacheTTL),
	}
}

// Status reports whether the database answers a ping. It never fails.
func (s *StatsServiceImpl) Status(ctx context.Context) types.StatusResponse {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := types.StatusResponse{Status: "ok", DB: "connected"}
	if err := s.db.Ping(ctx, nil); err != nil {
		s.logger.WarnContext(ctx, "Database ping failed", slog.String("method", "Status"), slog.Any("error", err))
		resp.DB = "disconnected"
	}
	return resp
}

func (s *StatsServiceImpl) Global(ctx context.Context) (*types.StatsResponse, error) {
	ctx, span := otel.Tracer("StatsService").Start(ctx, "Global")
	defer span.End()

	if cached, found := s.cache.Get(globalCacheKey); found {
		if resp, ok := cached.(types.StatsResponse); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &resp, nil
		}
	}

	var resp types.StatsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("error counting users: %w", err)
		}
		resp.Users = n
		return nil
	})
	g.Go(func() error {
		n, err := s.entries.Count(gctx)
		if err != nil {
			return fmt.Errorf("error counting journal entries: %w", err)
		}
		resp.JournalEntries = n
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to collect stats", slog.String("method", "Global"), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("stats.users", resp.Users),
		attribute.Int64("stats.journal_entries", resp.JournalEntries),
	)
	s.cache.Set(globalCacheKey, resp, cache.DefaultExpiration)
	return &resp, nil
}

func (s *StatsServiceImpl) UserEntryCount(ctx context.Context, userID string) (*types.UserEntryCountResponse, error) {
	ctx, span := otel.Tracer("StatsService").Start(ctx, "UserEntryCount")
	defer span.End()

	n, err := s.entries.CountByAuthor(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &types.UserEntryCountResponse{UserID: userID, UserEntries: n}, nil
}
