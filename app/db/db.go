package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/FACorreiaa/journalhub/config"
)

//go:embed migrations/*.json
var migrationFS embed.FS

const defaultRetries = 5

// Collection names.
const (
	UsersCollection          = "users"
	JournalEntriesCollection = "journal_entries"
	RevokedTokensCollection  = "blacklisted_tokens"
)

// Pinger is the subset of *mongo.Client used by health checks.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type DatabaseConfig struct {
	ConnectionURL string
	MigrationURL  string
	Name          string
	Timeout       time.Duration
}

// NewDatabaseConfig derives the driver and migration URLs from configuration.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Mongo.URI == "" || cfg.Repositories.Mongo.DB == "" {
		logger.Error("Mongo configuration is missing or invalid")
		return nil, errors.New("mongo configuration is missing or invalid")
	}

	u, err := url.Parse(cfg.Repositories.Mongo.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return nil, fmt.Errorf("invalid mongo uri scheme %q, expected mongodb:// or mongodb+srv://", u.Scheme)
	}

	// golang-migrate reads the database name from the URL path
	migrationURL := *u
	migrationURL.Path = "/" + cfg.Repositories.Mongo.DB

	timeout := cfg.Repositories.Mongo.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger.Info("Database connection configured", slog.String("host", u.Host), slog.String("database", cfg.Repositories.Mongo.DB))
	return &DatabaseConfig{
		ConnectionURL: cfg.Repositories.Mongo.URI,
		MigrationURL:  migrationURL.String(),
		Name:          cfg.Repositories.Mongo.DB,
		Timeout:       timeout,
	}, nil
}

// Init connects a mongo client. The caller owns Disconnect.
func Init(ctx context.Context, dbCfg *DatabaseConfig, logger *slog.Logger) (*mongo.Client, error) {
	logger.Info("Initializing mongo client...")
	opts := options.Client().
		ApplyURI(dbCfg.ConnectionURL).
		SetConnectTimeout(dbCfg.Timeout).
		SetServerSelectionTimeout(dbCfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("Failed to create mongo client", slog.Any("error", err))
		return nil, fmt.Errorf("failed creating mongo client: %w", err)
	}

	logger.Info("Mongo client initialized")
	return client, nil
}

// WaitForDB pings the database with a linear backoff until it answers.
func WaitForDB(ctx context.Context, db Pinger, logger *slog.Logger) bool {
	for attempts := 1; attempts <= defaultRetries; attempts++ {
		err := db.Ping(ctx, readpref.Primary())
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful")
			return true
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.WarnContext(ctx, "Database ping failed, retrying...",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", defaultRetries),
			slog.Duration("wait_duration", waitDuration),
			slog.String("error", err.Error()),
		)
		if attempts < defaultRetries {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(waitDuration):
			}
		}
	}
	logger.ErrorContext(ctx, "Database connection failed after multiple retries")
	return false
}

// RunMigrations applies the embedded index migrations.
func RunMigrations(migrationURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	if !strings.HasPrefix(migrationURL, "mongodb://") && !strings.HasPrefix(migrationURL, "mongodb+srv://") {
		return errors.New("invalid database URL scheme for migrate, ensure it starts with mongodb://")
	}

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		logger.Error("Failed to create migration source driver", slog.Any("error", err))
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, migrationURL)
	if err != nil {
		logger.Error("Failed to initialize migrate instance", slog.Any("error", err))
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Error closing migration source", slog.Any("error", srcErr))
		}
		if dbErr != nil {
			logger.Warn("Error closing migration database connection", slog.Any("error", dbErr))
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply.")
	case err != nil:
		logger.Error("Failed to apply migrations", slog.Any("error", err))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		logger.Warn("Could not determine migration version", slog.Any("error", err))
		return nil
	}
	if dirty {
		logger.Error("DATABASE MIGRATION STATE IS DIRTY!", slog.Uint64("version", uint64(version)))
		return fmt.Errorf("database migration state is dirty at version %d", version)
	}
	logger.Info("Database migrations applied", slog.Uint64("version", uint64(version)))
	return nil
}
