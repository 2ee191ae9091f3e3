package types

import (
	"encoding/json"
	"time"
)

// EventType represents the type of real-time event
type EventType string

const (
	EventMediaUploaded EventType = "media.uploaded"
	EventMediaOrphaned EventType = "media.orphaned"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// MediaUploadedEvent is sent to the uploader once an upload has fully completed
type MediaUploadedEvent struct {
	Kind     MediaKind `json:"kind"`
	PublicID string    `json:"public_id"`
	VideoID  string    `json:"video_id,omitempty"`
}

// MediaOrphanedEvent tells the uploader the remote object was stored but not recorded
type MediaOrphanedEvent struct {
	Kind     MediaKind `json:"kind"`
	PublicID string    `json:"public_id"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
