package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/princekumarofficial/media-service/internal/utils/jwt"
	"github.com/princekumarofficial/media-service/internal/utils/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Unauthorised is the body returned for every authentication failure.
const Unauthorised = "Unauthorised"

// AuthMiddleware resolves the caller identity from a Bearer token. Requests
// without a valid identity never reach next.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.WriteError(w, http.StatusUnauthorized, Unauthorised)
				return
			}

			userID, err := jwt.ExtractUserIDFromToken(strings.TrimSpace(token), jwtSecret)
			if err != nil {
				slog.Debug("rejected token", slog.String("error", err.Error()))
				response.WriteError(w, http.StatusUnauthorized, Unauthorised)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID stores the caller identity on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
