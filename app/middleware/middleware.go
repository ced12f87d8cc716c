package appMiddleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/journalhub/internal/api"
)

// GlobalRateLimit limits every client IP to requests per window across the API.
func GlobalRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}

// IPRateLimit is a per-IP limit for a single sensitive route. Rejections are
// logged with the offending IP and answered with message.
func IPRateLimit(requests int, window time.Duration, message string, logger *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("ip", r.RemoteAddr), slog.String("path", r.URL.Path))
			api.ErrorResponse(w, r, http.StatusTooManyRequests, message)
		}),
	)
}
