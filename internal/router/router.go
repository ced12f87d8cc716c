package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/journalhub/internal/api/auth"
	"github.com/FACorreiaa/journalhub/internal/api/journal"
	"github.com/FACorreiaa/journalhub/internal/api/stats"
	"github.com/FACorreiaa/journalhub/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler    auth.Handler
	UserHandler    user.Handler
	JournalHandler journal.Handler
	StatsHandler   stats.Handler

	// AuthenticateMiddleware is required; SetupRouter panics without it.
	AuthenticateMiddleware func(http.Handler) http.Handler
	// RateLimitMiddleware applies to every /api route.
	RateLimitMiddleware func(http.Handler) http.Handler
	// ResetLimitMiddleware guards the password reset request endpoint.
	ResetLimitMiddleware func(http.Handler) http.Handler

	AllowedOrigins []string
}

func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return passthrough
	}
	return mw
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	if cfg.AuthenticateMiddleware == nil {
		panic("router: AuthenticateMiddleware cannot be nil")
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(orPassthrough(cfg.RateLimitMiddleware))

		// --- Public Routes ---
		r.Group(func(r chi.Router) {
			r.Post("/user/register", cfg.UserHandler.Register)
			r.Post("/user/login", cfg.AuthHandler.Login)
			r.With(orPassthrough(cfg.ResetLimitMiddleware)).
				Post("/auth/request-password-reset", cfg.AuthHandler.RequestPasswordReset)
			r.Post("/auth/reset-password", cfg.AuthHandler.ResetPassword)
			r.Get("/public/journal-entries", cfg.JournalHandler.ListPublic)
			r.Get("/status", cfg.StatsHandler.Status)
		})

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/user/logout", cfg.AuthHandler.Logout)
			r.Get("/user/profile", cfg.UserHandler.GetProfile)
			r.Put("/user/profile", cfg.UserHandler.UpdateProfile)
			r.Delete("/user/profile", cfg.UserHandler.DeleteAccount)
			r.Put("/user/profile/password", cfg.UserHandler.ChangePassword)
			r.Get("/user/{id}/journal-entries/count", cfg.StatsHandler.UserEntryCount)

			r.Route("/journal-entries", func(r chi.Router) {
				r.Post("/", cfg.JournalHandler.Create)
				r.Get("/user", cfg.JournalHandler.ListByUser)
				r.Get("/{id}", cfg.JournalHandler.Get)
				r.Put("/{id}", cfg.JournalHandler.Update)
				r.Delete("/{id}", cfg.JournalHandler.Delete)
			})
			r.Get("/search/journal-entries", cfg.JournalHandler.Search)
			r.Get("/stats", cfg.StatsHandler.Global)
		})
	})

	return r
}
