package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultTimeout = 60 * time.Second

// Bridge waits on a StreamUploader callback and yields exactly one outcome.
type Bridge struct {
	uploader StreamUploader
	timeout  time.Duration
}

// NewBridge creates a bridge. A non-positive timeout falls back to DefaultTimeout.
func NewBridge(uploader StreamUploader, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		uploader: uploader,
		timeout:  timeout,
	}
}

// Upload streams data to the remote service and blocks until the remote
// callback fires, the timeout expires or ctx is cancelled.
func (b *Bridge) Upload(ctx context.Context, data []byte, opts Options) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	c := newCompletion()
	w := b.uploader.UploadStream(ctx, opts, c.resolve)

	go func() {
		if len(data) > 0 {
			if _, err := w.Write(data); err != nil {
				c.resolve(nil, fmt.Errorf("stream upload body: %w", err))
				w.Close()
				return
			}
		}
		if err := w.Close(); err != nil {
			c.resolve(nil, fmt.Errorf("finish upload stream: %w", err))
		}
	}()

	select {
	case <-c.done:
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrUploadTimeout
		}
		c.resolve(nil, err)
	}

	return c.outcome()
}

// Destroy removes a stored object. Used for best-effort orphan cleanup.
func (b *Bridge) Destroy(ctx context.Context, publicID, resourceType string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.uploader.Destroy(ctx, publicID, resourceType)
}

// completion is a one-shot signal: the first resolve wins, later ones are dropped.
type completion struct {
	once sync.Once
	done chan struct{}
	res  *Result
	err  error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

func (c *completion) resolve(res *Result, err error) {
	settled := false
	c.once.Do(func() {
		c.res, c.err = res, err
		settled = true
		close(c.done)
	})
	if !settled {
		slog.Debug("ignoring upload completion after terminal state")
	}
}

func (c *completion) outcome() (*Result, error) {
	<-c.done
	if c.err != nil {
		return nil, c.err
	}
	if c.res == nil {
		return nil, ErrNoResult
	}
	return c.res, nil
}
