// Package cache stores slow-changing server data (server variables, languages)
// between CLI invocations.
//
// Entries are JSON, scoped per server URL. The default TTL is 5 minutes.
// Disable with BO_NO_CACHE=1. Set BO_CACHE_REDIS_URL to share a cache
// through Redis instead of the local cache directory.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Cache is a TTL key/value store for JSON-encodable values.
type Cache interface {
	// Get loads the value for key into dst. Returns false on miss, expiry or decode failure.
	Get(ctx context.Context, key string, dst any) bool
	// Put stores v under key. Failures are silent; the cache is an optimization.
	Put(ctx context.Context, key string, v any)
	// Delete removes one key.
	Delete(ctx context.Context, key string)
	// Clear removes every entry in this cache's scope.
	Clear(ctx context.Context) error
}

// Open returns the cache selected by the environment for the server at baseURL.
func Open(baseURL string) (Cache, error) {
	if disabled() {
		return Nop{}, nil
	}
	if redisURL := strings.TrimSpace(os.Getenv("BO_CACHE_REDIS_URL")); redisURL != "" {
		return NewRedisFromURL(redisURL, baseURL, DefaultTTL)
	}
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewFile(dir, baseURL, DefaultTTL), nil
}

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Value    json.RawMessage `json:"value"`
}

func encodeEntry(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entry{CachedAt: time.Now(), Value: raw})
}

func decodeEntry(data []byte, ttl time.Duration, dst any) bool {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if ttl > 0 && time.Since(e.CachedAt) > ttl {
		return false
	}
	return json.Unmarshal(e.Value, dst) == nil
}

// scopeHash identifies a server so caches for different servers never mix.
func scopeHash(baseURL string) string {
	hash := sha1.Sum([]byte(strings.TrimSuffix(strings.ToLower(baseURL), "/")))
	return hex.EncodeToString(hash[:6])
}

func disabled() bool {
	return os.Getenv("BO_NO_CACHE") != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string, any) bool { return false }

func (Nop) Put(context.Context, string, any) {}

func (Nop) Delete(context.Context, string) {}

func (Nop) Clear(context.Context) error { return nil }

// Fetch returns the cached value for key, or calls load and caches its result.
// Load errors are returned and nothing is cached.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c != nil && c.Get(ctx, key, &v) {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Put(ctx, key, v)
	}
	return v, nil
}
