package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/media-service/internal/types"
)

// ErrEmailTaken is returned by CreateUser for an already registered email.
var ErrEmailTaken = errors.New("email already registered")

// VideoStore persists and lists Media Records.
type VideoStore interface {
	CreateVideo(ctx context.Context, video types.Video) (*types.Video, error)
	ListVideos(ctx context.Context) ([]types.Video, error)
}

type Storage interface {
	VideoStore
	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)
	Ping(ctx context.Context) error
}
