package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/media-service/internal/storage"
	"github.com/princekumarofficial/media-service/internal/types"
)

// Cache key patterns
const (
	KeyPrefix     = "media:"
	VideoListKey  = KeyPrefix + "videos:all"
	VideoGenKey   = KeyPrefix + "videos:gen"
	VideoListTTL  = 30 * time.Second
	RateLimitKeys = KeyPrefix + "ratelimit:*"
)

// CacheService wraps storage with a Redis cache for the video listing.
// Every write through it drops the cached listing.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
	ttl     time.Duration
}

func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
		ttl:     VideoListTTL,
	}
}

// ListVideos serves the listing from Redis when present. Cache failures
// fall through to the store. A listing read while a record was being
// created is returned but not cached.
func (c *CacheService) ListVideos(ctx context.Context) ([]types.Video, error) {
	cached, err := c.redis.Get(ctx, VideoListKey).Bytes()
	if err == nil {
		var videos []types.Video
		if err := json.Unmarshal(cached, &videos); err == nil {
			return videos, nil
		}
	} else if err != redis.Nil {
		slog.Warn("video list cache read failed", slog.String("error", err.Error()))
	}

	gen, genErr := c.generation(ctx, c.redis)

	videos, err := c.storage.ListVideos(ctx)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		c.storeVideoList(ctx, gen, videos)
	}

	return videos, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *CacheService) generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, VideoGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// storeVideoList caches videos only if no write bumped the generation since
// gen was read.
func (c *CacheService) storeVideoList(ctx context.Context, gen int64, videos []types.Video) {
	data, err := json.Marshal(videos)
	if err != nil {
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, VideoListKey, data, c.ttl)
			return nil
		})
		return err
	}, VideoGenKey)
	if err != nil && err != redis.TxFailedErr {
		slog.Warn("video list cache write failed", slog.String("error", err.Error()))
	}
}

func (c *CacheService) CreateVideo(ctx context.Context, video types.Video) (*types.Video, error) {
	created, err := c.storage.CreateVideo(ctx, video)
	if err != nil {
		return nil, err
	}

	c.InvalidateVideoList(ctx)
	return created, nil
}

// InvalidateVideoList bumps the listing generation and drops the cached
// listing in one transaction.
func (c *CacheService) InvalidateVideoList(ctx context.Context) {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VideoGenKey)
		pipe.Del(ctx, VideoListKey)
		return nil
	})
	if err != nil {
		slog.Warn("video list cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (c *CacheService) CreateUser(ctx context.Context, email, password string) (string, error) {
	return c.storage.CreateUser(ctx, email, password)
}

func (c *CacheService) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	return c.storage.GetUserByEmail(ctx, email)
}

func (c *CacheService) Ping(ctx context.Context) error {
	return c.storage.Ping(ctx)
}

var _ storage.Storage = (*CacheService)(nil)
