package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/journalhub/app/db"
	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/internal/types"
)

var _ JournalRepo = (*MongoJournalRepo)(nil)

// JournalRepo persists journal entries. Every mutation is scoped by author_id.
type JournalRepo interface {
	Create(ctx context.Context, entry *types.JournalEntry) error
	FindByID(ctx context.Context, entryID string) (*types.JournalEntry, error)
	ListByAuthor(ctx context.Context, authorID string, page types.Page) ([]types.JournalEntry, error)
	ListPublic(ctx context.Context, page types.Page) ([]types.JournalEntry, error)
	// Update returns types.ErrNotFound when the entry does not exist or belongs to someone else.
	Update(ctx context.Context, authorID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error)
	Delete(ctx context.Context, authorID, entryID string) error
	Search(ctx context.Context, authorID, query string, page types.Page) ([]types.JournalEntry, error)
	DeleteAllForUser(ctx context.Context, authorID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type MongoJournalRepo struct {
	logger *slog.Logger
	coll   *mongo.Collection
}

func NewMongoJournalRepo(db *mongo.Database, logger *slog.Logger) *MongoJournalRepo {
	return &MongoJournalRepo{
		logger: logger,
		coll:   db.Collection(database.JournalEntriesCollection),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, types.ErrNotFound
	}
	return oid, nil
}

func (r *MongoJournalRepo) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer("JournalRepo").Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.collection", database.JournalEntriesCollection),
		attribute.String("db.operation", op),
	))
}

func (r *MongoJournalRepo) Create(ctx context.Context, entry *types.JournalEntry) error {
	ctx, span := r.startSpan(ctx, "Create")
	defer span.End()

	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.UpdatedAt = entry.CreatedAt

	start := time.Now()
	_, err := r.coll.InsertOne(ctx, entry)
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "insert", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("error inserting journal entry: %w", err)
	}
	return nil
}

func (r *MongoJournalRepo) FindByID(ctx context.Context, entryID string) (*types.JournalEntry, error) {
	ctx, span := r.startSpan(ctx, "FindByID")
	defer span.End()

	oid, err := objectID(entryID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var entry types.JournalEntry
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "find", start, nil)
		return nil, types.ErrNotFound
	}
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "find", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error fetching journal entry: %w", err)
	}
	return &entry, nil
}

func (r *MongoJournalRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]types.JournalEntry, error) {
	start := time.Now()
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "find", start, err)
		return nil, fmt.Errorf("error querying journal entries: %w", err)
	}
	entries := make([]types.JournalEntry, 0)
	err = cur.All(ctx, &entries)
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("error decoding journal entries: %w", err)
	}
	return entries, nil
}

func pageOptions(page types.Page) *options.FindOptions {
	page = page.Normalize()
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)
}

func (r *MongoJournalRepo) ListByAuthor(ctx context.Context, authorID string, page types.Page) ([]types.JournalEntry, error) {
	ctx, span := r.startSpan(ctx, "ListByAuthor")
	defer span.End()

	oid, err := objectID(authorID)
	if err != nil {
		return []types.JournalEntry{}, nil
	}

	entries, err := r.find(ctx, bson.M{"author_id": oid}, pageOptions(page))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results.count", len(entries)))
	return entries, nil
}

func (r *MongoJournalRepo) ListPublic(ctx context.Context, page types.Page) ([]types.JournalEntry, error) {
	ctx, span := r.startSpan(ctx, "ListPublic")
	defer span.End()

	entries, err := r.find(ctx, bson.M{"is_public": true}, pageOptions(page))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results.count", len(entries)))
	return entries, nil
}

func (r *MongoJournalRepo) Update(ctx context.Context, authorID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error) {
	ctx, span := r.startSpan(ctx, "Update")
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.String("entryID", entryID))

	oid, err := objectID(entryID)
	if err != nil {
		return nil, err
	}
	author, err := objectID(authorID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Content != nil {
		set["content"] = *params.Content
	}
	if params.IsPublic != nil {
		set["is_public"] = *params.IsPublic
	}

	start := time.Now()
	var updated types.JournalEntry
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "author_id": author},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "update", start, nil)
		return nil, types.ErrNotFound
	}
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "update", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update journal entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("error updating journal entry: %w", err)
	}
	return &updated, nil
}

func (r *MongoJournalRepo) Delete(ctx context.Context, authorID, entryID string) error {
	ctx, span := r.startSpan(ctx, "Delete")
	defer span.End()

	oid, err := objectID(entryID)
	if err != nil {
		return err
	}
	author, err := objectID(authorID)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "author_id": author})
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "delete", start, err)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting journal entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Search runs a $text query over title and content, best matches first.
func (r *MongoJournalRepo) Search(ctx context.Context, authorID, query string, page types.Page) ([]types.JournalEntry, error) {
	ctx, span := r.startSpan(ctx, "Search")
	defer span.End()

	author, err := objectID(authorID)
	if err != nil {
		return []types.JournalEntry{}, nil
	}

	page = page.Normalize()
	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)

	entries, err := r.find(ctx, bson.M{"$text": bson.M{"$search": query}, "author_id": author}, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results.count", len(entries)))
	return entries, nil
}

func (r *MongoJournalRepo) DeleteAllForUser(ctx context.Context, authorID string) (int64, error) {
	ctx, span := r.startSpan(ctx, "DeleteAllForUser")
	defer span.End()

	author, err := objectID(authorID)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	res, err := r.coll.DeleteMany(ctx, bson.M{"author_id": author})
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "delete", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return 0, fmt.Errorf("error deleting journal entries: %w", err)
	}
	span.SetAttributes(attribute.Int64("deleted.count", res.DeletedCount))
	return res.DeletedCount, nil
}

func (r *MongoJournalRepo) count(ctx context.Context, filter bson.M) (int64, error) {
	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, filter)
	metrics.RecordDBQuery(ctx, database.JournalEntriesCollection, "count", start, err)
	if err != nil {
		return 0, fmt.Errorf("error counting journal entries: %w", err)
	}
	return n, nil
}

func (r *MongoJournalRepo) Count(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "Count")
	defer span.End()

	return r.count(ctx, bson.M{})
}

func (r *MongoJournalRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	ctx, span := r.startSpan(ctx, "CountByAuthor")
	defer span.End()

	author, err := objectID(authorID)
	if err != nil {
		return 0, nil
	}
	return r.count(ctx, bson.M{"author_id": author})
}
