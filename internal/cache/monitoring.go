package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/media-service/internal/utils/response"
)

// CacheStats represents cache state
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	VideoListTTL   float64  `json:"video_list_ttl_seconds"`
	CacheKeys      []string `json:"cache_keys_sample"`
	KeyCount       int      `json:"total_keys"`
}

const sampleSize = 10

// scanKeys collects up to limit keys matching pattern.
func scanKeys(r *http.Request, client *redis.Client, pattern string, limit int) ([]string, error) {
	var keys []string
	iter := client.Scan(r.Context(), 0, pattern, 100).Iterator()
	for iter.Next(r.Context()) {
		keys = append(keys, iter.Val())
		if limit > 0 && len(keys) >= limit {
			break
		}
	}
	return keys, iter.Err()
}

// GetCacheStats reports Redis state and a sample of service keys.
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true, CacheKeys: []string{}}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		if ttl, err := redisClient.TTL(ctx, VideoListKey).Result(); err == nil && ttl > 0 {
			stats.VideoListTTL = ttl.Seconds()
		}

		if keys, err := scanKeys(r, redisClient, KeyPrefix+"*", sampleSize); err == nil && keys != nil {
			stats.CacheKeys = keys
		}

		if size, err := redisClient.DBSize(ctx).Result(); err == nil {
			stats.KeyCount = int(size)
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache deletes cached entries selected by ?type=videos|ratelimit|all.
// The orphan ledger is never touched.
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patterns []string
		switch r.URL.Query().Get("type") {
		case "ratelimit":
			patterns = []string{RateLimitKeys}
		case "all":
			patterns = []string{VideoListKey, RateLimitKeys}
		default:
			patterns = []string{VideoListKey}
		}

		var deleted int64
		for _, pattern := range patterns {
			keys, err := scanKeys(r, redisClient, pattern, 0)
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
				return
			}
			if len(keys) == 0 {
				continue
			}

			n, err := redisClient.Del(r.Context(), keys...).Result()
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
				return
			}
			deleted += n
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared", map[string]interface{}{
			"patterns":     patterns,
			"deleted_keys": deleted,
		}))
	}
}
