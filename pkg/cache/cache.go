// Package cache stores pipeline results keyed by content hashes.
//
// Backends:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI.
//   - [NullCache]: caching disabled.
//   - [RedisCache]: a shared Redis instance, for the API server.
//   - [MongoCache]: a MongoDB collection with a TTL index.
//
// Keys come from a [Keyer]; [DefaultKeyer] hashes the input and every option
// that affects the result, so equal keys always mean equal results.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear drops all entries if c supports it and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}

// Pruner is implemented by caches that expire entries lazily and can
// sweep them on demand.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// Prune sweeps expired entries if c supports it. It returns the number
// removed and whether c supports pruning.
func Prune(ctx context.Context, c Cache) (int, bool, error) {
	p, ok := c.(Pruner)
	if !ok {
		return 0, false, nil
	}
	n, err := p.Prune(ctx)
	return n, true, err
}

// NullCache stores nothing; every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
