package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/media-service/internal/events"
	"github.com/princekumarofficial/media-service/internal/types"
	"github.com/princekumarofficial/media-service/internal/utils/jwt"
	wsClient "github.com/princekumarofficial/media-service/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestWebSocketHandler_RejectsMissingToken(t *testing.T) {
	hub := wsClient.NewHub()
	rr := httptest.NewRecorder()

	WebSocketHandler(hub, secret)(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Unauthorised"}`, rr.Body.String())
}

func TestWebSocketHandler_RejectsBadToken(t *testing.T) {
	hub := wsClient.NewHub()
	rr := httptest.NewRecorder()

	WebSocketHandler(hub, secret)(rr, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebSocketHandler_DeliversUploadEvents(t *testing.T) {
	hub := wsClient.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(WebSocketHandler(hub, secret))
	defer srv.Close()

	token, err := jwt.CreateToken("7", secret)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsUserConnected("7") }, time.Second, 5*time.Millisecond)

	events.NewEventPublisher(hub).PublishMediaUploaded("7", types.MediaVideo, "abc123", "vid-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Type types.EventType          `json:"type"`
		Data types.MediaUploadedEvent `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, types.EventMediaUploaded, got.Type)
	assert.Equal(t, "abc123", got.Data.PublicID)
	assert.Equal(t, "vid-1", got.Data.VideoID)
}
