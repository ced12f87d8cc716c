package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

var _ UserRepo = (*MongoUserRepo)(nil)

// UserRepo defines the contract for user persistence.
// Lookups by an id that is not a valid ObjectID return types.ErrNotFound.
type UserRepo interface {
	// Create inserts the user and returns its id. A taken email yields types.ErrConflict.
	Create(ctx context.Context, user *types.User) (string, error)
	FindByID(ctx context.Context, userID string) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	// UpdateProfile sets only the non-nil fields and returns the updated document.
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.User, error)
	// UpdatePassword stores the new hash and stamps password_changed_at.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// PasswordChangedAt is the zero time for users who never changed their password.
	PasswordChangedAt(ctx context.Context, userID string) (time.Time, error)
	// MarkDeletionStarted records the deletion marker, keeping the earliest one if already set.
	MarkDeletionStarted(ctx context.Context, userID string, at time.Time) (*types.User, error)
	Delete(ctx context.Context, userID string) error
	ListPendingDeletion(ctx context.Context) ([]types.User, error)
	Count(ctx context.Context) (int64, error)
}

type MongoUserRepo struct {
	logger *slog.Logger
	coll   *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database, logger *slog.Logger) *MongoUserRepo {
	return &MongoUserRepo{
		logger: logger,
		coll:   db.Collection(database.UsersCollection),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, types.ErrNotFound
	}
	return oid, nil
}

func (r *MongoUserRepo) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer("UserRepo").Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.collection", database.UsersCollection),
		attribute.String("db.operation", op),
	))
}

func (r *MongoUserRepo) Create(ctx context.Context, user *types.User) (string, error) {
	ctx, span := r.startSpan(ctx, "Create")
	defer span.End()

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = types.RoleUser
	}

	start := time.Now()
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		metrics.RecordDBQuery(ctx, database.UsersCollection, "insert", start, nil)
		return "", types.ErrConflict
	}
	metrics.RecordDBQuery(ctx, database.UsersCollection, "insert", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return "", fmt.Errorf("error inserting user: %w", err)
	}
	return user.ID.Hex(), nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, op string, filter bson.M) (*types.User, error) {
	start := time.Now()
	var user types.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordDBQuery(ctx, database.UsersCollection, op, start, nil)
		return nil, types.ErrNotFound
	}
	metrics.RecordDBQuery(ctx, database.UsersCollection, op, start, err)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, userID string) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "FindByID")
	defer span.End()

	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "find", bson.M{"_id": oid})
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "FindByEmail")
	defer span.End()

	return r.findOne(ctx, "find", bson.M{"email": normalizeEmail(email)})
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "UpdateProfile")
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID))

	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if params.FullName != nil {
		set["fullName"] = *params.FullName
		span.SetAttributes(attribute.Bool("update.fullName", true))
	}
	if params.Nickname != nil {
		set["nickname"] = *params.Nickname
		span.SetAttributes(attribute.Bool("update.nickname", true))
	}
	if params.Email != nil {
		set["email"] = normalizeEmail(*params.Email)
		span.SetAttributes(attribute.Bool("update.email", true))
	}
	if params.ProfilePic != nil {
		set["profilePic"] = *params.ProfilePic
		span.SetAttributes(attribute.Bool("update.profilePic", true))
	}
	if params.IsPrivate != nil {
		set["isPrivate"] = *params.IsPrivate
		span.SetAttributes(attribute.Bool("update.isPrivate", true))
	}
	l.DebugContext(ctx, "Updating user profile", slog.Int("fields", len(set)-1))

	start := time.Now()
	var updated types.User
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, nil)
		return nil, types.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, nil)
		return nil, types.ErrConflict
	case err != nil:
		metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, err)
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("error updating user profile: %w", err)
	}
	metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, nil)
	return &updated, nil
}

func (r *MongoUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	ctx, span := r.startSpan(ctx, "UpdatePassword")
	defer span.End()

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	start := time.Now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": passwordHash, "password_changed_at": now, "updated_at": now}},
	)
	metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, err)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error updating password: %w", err)
	}
	if res.MatchedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) PasswordChangedAt(ctx context.Context, userID string) (time.Time, error) {
	ctx, span := r.startSpan(ctx, "PasswordChangedAt")
	defer span.End()

	oid, err := objectID(userID)
	if err != nil {
		return time.Time{}, err
	}

	start := time.Now()
	var doc struct {
		PasswordChangedAt *time.Time `bson:"password_changed_at"`
	}
	opts := options.FindOne().SetProjection(bson.M{"password_changed_at": 1})
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordDBQuery(ctx, database.UsersCollection, "find", start, nil)
		return time.Time{}, types.ErrNotFound
	}
	metrics.RecordDBQuery(ctx, database.UsersCollection, "find", start, err)
	if err != nil {
		span.RecordError(err)
		return time.Time{}, fmt.Errorf("error fetching password change time: %w", err)
	}
	if doc.PasswordChangedAt == nil {
		return time.Time{}, nil
	}
	return *doc.PasswordChangedAt, nil
}

func (r *MongoUserRepo) MarkDeletionStarted(ctx context.Context, userID string, at time.Time) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "MarkDeletionStarted")
	defer span.End()

	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var user types.User
	// $min keeps an earlier marker from an interrupted attempt
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$min": bson.M{"deletion_started_at": at.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, nil)
		return nil, types.ErrNotFound
	}
	metrics.RecordDBQuery(ctx, database.UsersCollection, "update", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error marking user for deletion: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) Delete(ctx context.Context, userID string) error {
	ctx, span := r.startSpan(ctx, "Delete")
	defer span.End()

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	metrics.RecordDBQuery(ctx, database.UsersCollection, "delete", start, err)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) ListPendingDeletion(ctx context.Context) ([]types.User, error) {
	ctx, span := r.startSpan(ctx, "ListPendingDeletion")
	defer span.End()

	start := time.Now()
	cur, err := r.coll.Find(ctx, bson.M{"deletion_started_at": bson.M{"$exists": true}})
	if err != nil {
		metrics.RecordDBQuery(ctx, database.UsersCollection, "find", start, err)
		span.RecordError(err)
		return nil, fmt.Errorf("error listing pending deletions: %w", err)
	}
	users := make([]types.User, 0)
	err = cur.All(ctx, &users)
	metrics.RecordDBQuery(ctx, database.UsersCollection, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("error decoding pending deletions: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) Count(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "Count")
	defer span.End()

	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	metrics.RecordDBQuery(ctx, database.UsersCollection, "count", start, err)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}
