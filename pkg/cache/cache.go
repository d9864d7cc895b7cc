// Package cache stores rendered diagrams and other derived artifacts.
//
// Every backend implements [Cache]. The CLI uses [FileCache] under the user's
// cache directory, the HTTP server uses [MemoryCache] or [RedisCache], and
// [NullCache] disables caching entirely.
//
// Keys are built with [DiagramKey] so that any change to the roadmap content,
// the expanded set, the output format, or the layout options produces a new
// key. [Scoped] prefixes all keys of a cache, which is how Redis keys are
// namespaced.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values.
const (
	TTLDiagram = 24 * time.Hour
	TTLLayout  = time.Hour
)

// GetJSON loads key from c and decodes it into v. A corrupt entry is deleted
// and reported as [ErrCorrupt].
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
