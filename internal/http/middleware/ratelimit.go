package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/princekumarofficial/media-service/internal/ratelimit"
	"github.com/princekumarofficial/media-service/internal/utils/response"
)

// RateLimit limits authenticated callers per action. A nil limiter lets
// every request through.
type RateLimit struct {
	limiter *ratelimit.Limiter
}

func NewRateLimit(limiter *ratelimit.Limiter) *RateLimit {
	return &RateLimit{limiter: limiter}
}

// Middleware must run after AuthMiddleware.
func (rl *RateLimit) Middleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl == nil || rl.limiter == nil || !rl.limiter.Limited(action) {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.WriteError(w, http.StatusUnauthorized, Unauthorised)
				return
			}

			decision, err := rl.limiter.Take(r.Context(), userID, action)
			if err != nil {
				// Redis trouble must not block uploads.
				slog.Warn("rate limit check failed", slog.String("action", action), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", "60")

			if !decision.Allowed {
				response.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Wrap applies the middleware to a handler func.
func (rl *RateLimit) Wrap(action string, handler http.HandlerFunc) http.Handler {
	return rl.Middleware(action)(handler)
}
