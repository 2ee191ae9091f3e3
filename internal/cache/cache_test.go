package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/media-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateVideo(ctx context.Context, video types.Video) (*types.Video, error) {
	args := m.Called(ctx, video)
	if v := args.Get(0); v != nil {
		return v.(*types.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListVideos(ctx context.Context) ([]types.Video, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]types.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setup(t *testing.T) (*CacheService, *MockStorage, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := new(MockStorage)
	return NewCacheService(store, client), store, mr, client
}

func sampleVideos() []types.Video {
	return []types.Video{
		{ID: "b", Title: "Newer", PublicID: "pub-b", CompressedSize: "50", CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "a", Title: "Older", PublicID: "pub-a", CompressedSize: "80", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestListVideos_MissThenHit(t *testing.T) {
	svc, store, mr, _ := setup(t)
	ctx := context.Background()

	store.On("ListVideos", mock.Anything).Return(sampleVideos(), nil).Once()

	first, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(VideoListKey))

	second, err := svc.ListVideos(ctx)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].CreatedAt.Equal(second[i].CreatedAt))
	}
	store.AssertNumberOfCalls(t, "ListVideos", 1)
}

func TestCreateVideo_InvalidatesListing(t *testing.T) {
	svc, store, mr, _ := setup(t)
	ctx := context.Background()

	store.On("ListVideos", mock.Anything).Return(sampleVideos(), nil).Once()
	_, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(VideoListKey))

	video := types.Video{ID: "c", PublicID: "pub-c", CompressedSize: "1"}
	store.On("CreateVideo", mock.Anything, video).Return(&video, nil)

	_, err = svc.CreateVideo(ctx, video)
	require.NoError(t, err)
	assert.False(t, mr.Exists(VideoListKey))
}

func TestListVideos_ConcurrentCreateIsNotCachedStale(t *testing.T) {
	svc, store, mr, _ := setup(t)
	ctx := context.Background()

	video := types.Video{ID: "c", PublicID: "pub-c", CompressedSize: "1"}
	store.On("CreateVideo", mock.Anything, video).Return(&video, nil).Once()

	// The insert commits while the reader is still holding the old listing.
	store.On("ListVideos", mock.Anything).
		Run(func(mock.Arguments) {
			_, err := svc.CreateVideo(ctx, video)
			require.NoError(t, err)
		}).
		Return(sampleVideos(), nil).Once()

	stale, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 2)
	assert.False(t, mr.Exists(VideoListKey))

	fresh := append([]types.Video{video}, sampleVideos()...)
	store.On("ListVideos", mock.Anything).Return(fresh, nil).Once()

	videos, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "c", videos[0].ID)
	assert.True(t, mr.Exists(VideoListKey))
	store.AssertExpectations(t)
}

func TestCreateVideo_FailureKeepsListing(t *testing.T) {
	svc, store, mr, _ := setup(t)
	ctx := context.Background()

	store.On("ListVideos", mock.Anything).Return(sampleVideos(), nil).Once()
	_, err := svc.ListVideos(ctx)
	require.NoError(t, err)

	store.On("CreateVideo", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err = svc.CreateVideo(ctx, types.Video{ID: "c"})
	assert.Error(t, err)
	assert.True(t, mr.Exists(VideoListKey))
}

func TestListVideos_StoreErrorIsNotCached(t *testing.T) {
	svc, store, mr, _ := setup(t)

	store.On("ListVideos", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.ListVideos(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(VideoListKey))
}

func TestListVideos_RedisDownFallsThrough(t *testing.T) {
	svc, store, mr, _ := setup(t)
	mr.Close()

	store.On("ListVideos", mock.Anything).Return(sampleVideos(), nil)

	videos, err := svc.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestClearCache_KeepsOrphanLedger(t *testing.T) {
	_, _, mr, client := setup(t)

	mr.Set(VideoListKey, "[]")
	mr.Set(KeyPrefix+"ratelimit:7:upload_video", "x")
	mr.Lpush(KeyPrefix+"orphans", "{}")

	rr := httptest.NewRecorder()
	ClearCache(client)(rr, httptest.NewRequest(http.MethodDelete, "/admin/cache?type=all", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, mr.Exists(VideoListKey))
	assert.False(t, mr.Exists(KeyPrefix+"ratelimit:7:upload_video"))
	assert.True(t, mr.Exists(KeyPrefix+"orphans"))
}

func TestGetCacheStats(t *testing.T) {
	_, _, mr, client := setup(t)
	mr.Set(VideoListKey, "[]")

	rr := httptest.NewRecorder()
	GetCacheStats(client)(rr, httptest.NewRequest(http.MethodGet, "/admin/cache", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data CacheStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Data.RedisConnected)
	assert.Equal(t, 1, body.Data.KeyCount)
	assert.Contains(t, body.Data.CacheKeys, VideoListKey)
}
