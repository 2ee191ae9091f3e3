// Package upload turns push-style remote upload primitives into a single
// awaitable result.
//
// A StreamUploader hands back a writer for the payload and reports the
// outcome through a callback once the remote service has accepted (or
// rejected) the object. Bridge drives that writer and waits for the callback
// with a bounded timeout.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUploadTimeout is returned when the remote service never reports completion.
	ErrUploadTimeout = errors.New("upload timed out waiting for remote completion")
	// ErrNoResult is returned when the remote callback reports neither a result nor an error.
	ErrNoResult = errors.New("remote upload completed without a result")
	// ErrCredentialsMissing is returned when a remote client is built without credentials.
	ErrCredentialsMissing = errors.New("remote storage credentials not configured")
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Options select where and how the remote service stores the object.
type Options struct {
	Folder         string
	ResourceType   string
	Transformation string
}

var (
	ImageOptions = Options{
		Folder:       "home/saas/images",
		ResourceType: ResourceImage,
	}
	VideoOptions = Options{
		Folder:         "home/saas/videos",
		ResourceType:   ResourceVideo,
		Transformation: "q_auto,f_mp4",
	}
)

// Result is the descriptor the remote service returns for a stored object.
// Duration is zero for images or when the service omits it. Fields holds the
// raw remote response and is not interpreted.
type Result struct {
	PublicID string
	Bytes    int64
	Duration float64
	Fields   map[string]interface{}
}

// Callback receives the terminal outcome of a streamed upload. Implementations
// call it at most once, with either a result or an error.
type Callback func(res *Result, err error)

// StreamUploader is the push-style primitive exposed by a remote media service.
// The returned writer accepts the payload; Close signals end of stream.
type StreamUploader interface {
	UploadStream(ctx context.Context, opts Options, done Callback) io.WriteCloser
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// RemoteError carries the error information reported by the remote service.
type RemoteError struct {
	Provider string
	Message  string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
