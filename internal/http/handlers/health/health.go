package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/princekumarofficial/media-service/internal/utils/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports whether the database answers within two seconds.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Failure 503 {object} response.ErrorResponse "database unavailable"
// @Router /healthz [get]
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
