package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/media-service/internal/http/middleware"
	"github.com/princekumarofficial/media-service/internal/utils/jwt"
	"github.com/princekumarofficial/media-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/media-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the upload UI origin; tokens gate access.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// tokenFromRequest accepts ?token= (browsers cannot set headers on upgrade)
// or a Bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return strings.TrimSpace(token)
}

// WebSocketHandler upgrades the connection and subscribes the caller to
// their own upload events.
// @Summary Subscribe to upload events
// @Description Upgrades to a WebSocket that receives media.uploaded and media.orphaned events for the caller
// @Tags events
// @Param token query string false "JWT, when the Authorization header cannot be set"
// @Failure 401 {object} response.ErrorResponse "Unauthorised"
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			response.WriteError(w, http.StatusUnauthorized, middleware.Unauthorised)
			return
		}

		userID, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
		if err != nil {
			slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusUnauthorized, middleware.Unauthorised)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, userID, hub)
		if !hub.RegisterClient(client) {
			conn.Close()
			return
		}
		client.Start()
	}
}
