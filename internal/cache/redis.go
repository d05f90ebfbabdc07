package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries under "bo:<scope>:<key>" with a server-side expiry.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// NewRedis wraps an existing client.
func NewRedis(rdb redis.UniversalClient, baseURL string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: "bo:" + scopeHash(baseURL) + ":", ttl: ttl}
}

// NewRedisFromURL connects using a redis:// or rediss:// URL.
func NewRedisFromURL(redisURL, baseURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BO_CACHE_REDIS_URL: %w", err)
	}
	return NewRedis(redis.NewClient(opts), baseURL, ttl), nil
}

func (r *Redis) key(key string) string {
	return r.prefix + sanitizeKey(key)
}

func (r *Redis) Get(ctx context.Context, key string, dst any) bool {
	data, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("cache get failed", "key", key, "error", err)
		}
		return false
	}
	return decodeEntry(data, r.ttl, dst)
}

func (r *Redis) Put(ctx context.Context, key string, v any) {
	data, err := encodeEntry(v)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		slog.Debug("cache put failed", "key", key, "error", err)
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	_ = r.rdb.Del(ctx, r.key(key)).Err()
}

// Clear deletes every key in this server's scope.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
