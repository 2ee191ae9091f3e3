package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/princekumarofficial/media-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClient(hub *Hub, userID string, buffer int) *Client {
	return &Client{send: make(chan []byte, buffer), userID: userID, hub: hub}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func receive(t *testing.T, c *Client) *types.Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var ev types.Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return &ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestHub_BroadcastReachesEveryConnectionOfUser(t *testing.T) {
	hub, _ := startHub(t)

	tab1 := fakeClient(hub, "7", 4)
	tab2 := fakeClient(hub, "7", 4)
	other := fakeClient(hub, "8", 4)
	require.True(t, hub.RegisterClient(tab1))
	require.True(t, hub.RegisterClient(tab2))
	require.True(t, hub.RegisterClient(other))

	require.Eventually(t, func() bool { return hub.GetClientCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsUserConnected("7"))

	hub.BroadcastToUser("7", types.NewEvent(types.EventMediaUploaded, map[string]string{"publicId": "abc123"}))

	assert.Equal(t, types.EventMediaUploaded, receive(t, tab1).Type)
	assert.Equal(t, types.EventMediaUploaded, receive(t, tab2).Type)
	assert.Empty(t, other.send)
}

func TestHub_UnregisterTwiceIsSafe(t *testing.T) {
	hub, _ := startHub(t)

	c := fakeClient(hub, "7", 1)
	require.True(t, hub.RegisterClient(c))

	hub.UnregisterClient(c)
	hub.UnregisterClient(c)

	_, ok := <-c.send
	assert.False(t, ok)
	assert.False(t, hub.IsUserConnected("7"))
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	hub, _ := startHub(t)

	c := fakeClient(hub, "7", 1)
	require.True(t, hub.RegisterClient(c))

	ev := types.NewEvent(types.EventMediaUploaded, nil)
	hub.BroadcastToUser("7", ev)
	hub.BroadcastToUser("7", ev)

	require.Eventually(t, func() bool { return !hub.IsUserConnected("7") }, time.Second, 5*time.Millisecond)

	// The buffered event is still delivered before the close.
	_, ok := <-c.send
	assert.True(t, ok)
	_, ok = <-c.send
	assert.False(t, ok)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	c := fakeClient(hub, "7", 1)
	require.True(t, hub.RegisterClient(c))

	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}

	assert.False(t, hub.RegisterClient(fakeClient(hub, "9", 1)))
	hub.UnregisterClient(c)
}
