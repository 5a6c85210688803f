// Package cache stores layout and score results between runs.
//
// Laying out a large DOT graph and checking every pair of its links for
// crossings are the two slow steps of scoring. Both are pure functions of
// their input bytes and options, so results are cached under a key derived
// from a content hash (see [Keyer]).
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
