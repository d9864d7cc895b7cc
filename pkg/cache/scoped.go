package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to an inner cache.
// This keeps several applications or environments apart in one Redis
// database.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped wraps inner so that all keys are prepended with prefix.
// A nil inner yields a scoped [NullCache].
func Scoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*ScopedCache)(nil)
