package container

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	database "github.com/FACorreiaa/journalhub/app/db"
	appMiddleware "github.com/FACorreiaa/journalhub/app/middleware"
	"github.com/FACorreiaa/journalhub/config"
	"github.com/FACorreiaa/journalhub/internal/api/auth"
	"github.com/FACorreiaa/journalhub/internal/api/journal"
	"github.com/FACorreiaa/journalhub/internal/api/stats"
	"github.com/FACorreiaa/journalhub/internal/api/user"
	"github.com/FACorreiaa/journalhub/internal/events"
	"github.com/FACorreiaa/journalhub/internal/notify"
	"github.com/FACorreiaa/journalhub/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Client    *mongo.Client
	DBConfig  *database.DatabaseConfig
	Mailer    *notify.Mailer
	Publisher events.Publisher

	Tokens      auth.TokenService
	UserService user.UserService

	AuthHandler    *auth.HandlerImpl
	UserHandler    *user.HandlerImpl
	JournalHandler *journal.HandlerImpl
	StatsHandler   *stats.HandlerImpl
}

// NewContainer connects to Mongo and wires repositories, services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	client, err := database.Init(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize mongo client", slog.Any("error", err))
		return nil, err
	}

	mailer, err := notify.NewMailer(cfg.Mail, logger)
	if err != nil {
		logger.Error("Failed to initialize mailer", slog.Any("error", err))
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(dbConfig.Name)
	c := Build(cfg, logger, Repositories{
		Users:       user.NewMongoUserRepo(db, logger),
		Journal:     journal.NewMongoJournalRepo(db, logger),
		Revocations: auth.NewMongoRevocationRepo(db, logger),
		DB:          client,
	}, mailer, events.NewPublisher(cfg.Kafka, logger))
	c.Client = client
	c.DBConfig = dbConfig
	c.Mailer = mailer
	return c, nil
}

// Repositories are the storage dependencies of the services.
type Repositories struct {
	Users       user.UserRepo
	Journal     journal.JournalRepo
	Revocations auth.RevocationRepo
	DB          database.Pinger
}

// Build wires services and handlers on top of repos. A nil notifier disables email.
func Build(cfg *config.Config, logger *slog.Logger, repos Repositories, notifier notify.Notifier, publisher events.Publisher) *Container {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	// Services
	tokens := auth.NewTokenService(cfg.JWT, repos.Revocations, repos.Users, logger)
	authService := auth.NewAuthService(repos.Users, tokens, notifier, cfg, logger)
	journalService := journal.NewJournalService(repos.Journal, publisher, logger)
	userService := user.NewUserService(repos.Users, journalService, tokens, notifier, publisher, cfg, logger)
	statsService := stats.NewStatsService(repos.DB, repos.Users, repos.Journal, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Publisher:      publisher,
		Tokens:         tokens,
		UserService:    userService,
		AuthHandler:    auth.NewHandlerImpl(authService, logger),
		UserHandler:    user.NewHandlerImpl(userService, logger),
		JournalHandler: journal.NewHandlerImpl(journalService, logger),
		StatsHandler:   stats.NewHandlerImpl(statsService, logger),
	}
}

// RouterConfig assembles the router dependencies from the container.
func (c *Container) RouterConfig() *router.Config {
	resetLimit := appMiddleware.IPRateLimit(
		c.Config.Server.ResetRateLimit.Requests,
		c.Config.Server.ResetRateLimit.Window,
		"Too many password reset requests, please try again later",
		c.Logger,
	)

	return &router.Config{
		AuthHandler:            c.AuthHandler,
		UserHandler:            c.UserHandler,
		JournalHandler:         c.JournalHandler,
		StatsHandler:           c.StatsHandler,
		AuthenticateMiddleware: auth.Authenticate(c.Logger, c.Tokens),
		RateLimitMiddleware:    appMiddleware.GlobalRateLimit(c.Config.Server.RateLimit.Requests, c.Config.Server.RateLimit.Window),
		ResetLimitMiddleware:   resetLimit,
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
	}
}

// Handler builds the API router.
func (c *Container) Handler() http.Handler {
	return router.SetupRouter(c.RouterConfig())
}

// Close drains pending notifications and events, then disconnects from Mongo.
func (c *Container) Close(ctx context.Context) error {
	if c.Mailer != nil {
		c.Mailer.Wait()
	}
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Client != nil {
		errs = append(errs, c.Client.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Client, c.Logger)
}

// RunMigrations applies the index migrations
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.DBConfig.MigrationURL, c.Logger)
}
