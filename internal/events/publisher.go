package events

import (
	"github.com/princekumarofficial/media-service/internal/types"
)

// Publisher notifies uploaders about the outcome of their uploads.
type Publisher interface {
	PublishMediaUploaded(userID string, kind types.MediaKind, publicID, videoID string)
	PublishMediaOrphaned(userID string, kind types.MediaKind, publicID string)
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher pushes events to the uploader's open websocket connections.
type EventPublisher struct {
	hub WebSocketHub
}

func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{hub: hub}
}

func (p *EventPublisher) PublishMediaUploaded(userID string, kind types.MediaKind, publicID, videoID string) {
	p.send(userID, types.NewEvent(types.EventMediaUploaded, &types.MediaUploadedEvent{
		Kind:     kind,
		PublicID: publicID,
		VideoID:  videoID,
	}))
}

func (p *EventPublisher) PublishMediaOrphaned(userID string, kind types.MediaKind, publicID string) {
	p.send(userID, types.NewEvent(types.EventMediaOrphaned, &types.MediaOrphanedEvent{
		Kind:     kind,
		PublicID: publicID,
	}))
}

func (p *EventPublisher) send(userID string, event *types.Event) {
	// Only send if the uploader is connected
	if p == nil || p.hub == nil || !p.hub.IsUserConnected(userID) {
		return
	}
	p.hub.BroadcastToUser(userID, event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishMediaUploaded(string, types.MediaKind, string, string) {}
func (Nop) PublishMediaOrphaned(string, types.MediaKind, string)         {}
