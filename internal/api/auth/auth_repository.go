package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
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

var _ RevocationRepo = (*MongoRevocationRepo)(nil)

// RevocationRepo is the persisted set of revoked, not yet expired tokens.
type RevocationRepo interface {
	// Add records token as revoked until expiresAt. inserted is false when it was already present.
	Add(ctx context.Context, token string, expiresAt time.Time) (inserted bool, err error)
	Contains(ctx context.Context, token string) (bool, error)
}

// MongoRevocationRepo stores token fingerprints in blacklisted_tokens.
// A TTL index on expires_at lets mongo purge records once the token has expired.
type MongoRevocationRepo struct {
	logger *slog.Logger
	coll   *mongo.Collection
}

func NewMongoRevocationRepo(db *mongo.Database, logger *slog.Logger) *MongoRevocationRepo {
	return &MongoRevocationRepo{
		logger: logger,
		coll:   db.Collection(database.RevokedTokensCollection),
	}
}

// Fingerprint is the SHA-256 hex digest stored in place of the raw token.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *MongoRevocationRepo) Add(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	ctx, span := otel.Tracer("RevocationRepo").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.collection", database.RevokedTokensCollection),
	))
	defer span.End()

	start := time.Now()
	_, err := r.coll.InsertOne(ctx, types.RevokedToken{
		TokenHash: Fingerprint(token),
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		metrics.RecordDBQuery(ctx, database.RevokedTokensCollection, "insert", start, nil)
		r.logger.DebugContext(ctx, "Token already revoked")
		return false, nil
	}
	metrics.RecordDBQuery(ctx, database.RevokedTokensCollection, "insert", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return false, fmt.Errorf("error inserting revoked token: %w", err)
	}
	return true, nil
}

func (r *MongoRevocationRepo) Contains(ctx context.Context, token string) (bool, error) {
	ctx, span := otel.Tracer("RevocationRepo").Start(ctx, "Contains", trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.collection", database.RevokedTokensCollection),
	))
	defer span.End()

	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, bson.M{"token_hash": Fingerprint(token)}, options.Count().SetLimit(1))
	metrics.RecordDBQuery(ctx, database.RevokedTokensCollection, "count", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return false, fmt.Errorf("error looking up revoked token: %w", err)
	}
	return n > 0, nil
}
