package media

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/princekumarofficial/media-service/internal/storage"
	"github.com/princekumarofficial/media-service/internal/types"
)

// Recorder turns a completed remote upload into a persisted Media Record.
type Recorder struct {
	store storage.VideoStore
	newID func() string
}

func NewRecorder(store storage.VideoStore) *Recorder {
	return &Recorder{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

// Record inserts exactly one record. Duration falls back to zero and the
// remote byte count is stored as decimal text. Errors are returned as is,
// with no retry.
func (r *Recorder) Record(ctx context.Context, in types.VideoInput) (*types.Video, error) {
	video := types.Video{
		ID:             r.newID(),
		Title:          in.Title,
		Description:    in.Description,
		PublicID:       in.PublicID,
		OriginalSize:   in.OriginalSize,
		CompressedSize: strconv.FormatInt(in.Bytes, 10),
		Duration:       in.Duration,
	}

	return r.store.CreateVideo(ctx, video)
}

// Reader lists Media Records newest first.
type Reader struct {
	store storage.VideoStore
}

func NewReader(store storage.VideoStore) *Reader {
	return &Reader{store: store}
}

func (r *Reader) List(ctx context.Context) ([]types.Video, error) {
	return r.store.ListVideos(ctx)
}
