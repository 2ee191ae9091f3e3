package types

import "time"

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Video is the durable record of one ingested and persisted video.
type Video struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PublicID       string    `json:"publicId"`
	OriginalSize   string    `json:"originalSize"`
	CompressedSize string    `json:"compressedSize"`
	Duration       float64   `json:"duration"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VideoInput carries the fields the recorder derives a Video from.
// OriginalSize is caller supplied and is never checked against the payload.
type VideoInput struct {
	Title        string
	Description  string
	OriginalSize string
	PublicID     string
	Bytes        int64
	Duration     float64
}

type ImageUploadResponse struct {
	PublicID string `json:"publicId"`
}

// Orphan describes a remote object that was stored but never recorded.
type Orphan struct {
	PublicID     string    `json:"public_id"`
	ResourceType string    `json:"resource_type"`
	UserID       string    `json:"user_id"`
	Reason       string    `json:"reason"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}
