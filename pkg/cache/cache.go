// Package cache stores settled frames and rendered artifacts between CLI
// runs.
//
// Keys come from a [Keyer] and are opaque strings. Implementations must be
// safe for use by one process at a time; the file cache makes no attempt to
// coordinate concurrent writers beyond atomic file replacement.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/algoflow/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// and unreadable entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// Instrumented reports hits, misses and writes for a key type to the
// registered observability cache hooks.
type Instrumented struct {
	Cache
	keyType string
}

// WithHooks wraps c so every Get and Set is reported under keyType.
func WithHooks(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, c.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, c.keyType)
	}
	return data, ok, nil
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}

var _ Cache = (*Instrumented)(nil)
