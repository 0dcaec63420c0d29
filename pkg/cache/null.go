package cache

import (
	"context"
	"time"
)

// NullCache stands in for the file cache when caching is off, either by
// --no-cache, by configuration, or because no cache directory is usable.
// Every Get misses and every write is dropped.
type NullCache struct {
	reason string
}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing. reason says why
// caching is off and is surfaced in debug logs.
func NewNullCache(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason reports why caching is off.
func (c *NullCache) Reason() string { return c.reason }

// Get implements Cache. It always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements Cache. The data is discarded.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements Cache.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close implements Cache.
func (*NullCache) Close() error { return nil }
