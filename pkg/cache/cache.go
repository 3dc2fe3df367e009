// Package cache provides byte-oriented caches for chain search results and
// contract reports.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP API and CI runners
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] from a content hash of the graph plus the
// query parameters, so a changed graph never reads stale results.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired or corrupt entries are reported as misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values. Results are keyed by graph content, so they
// only expire to bound storage.
const (
	ChainsTTL = 7 * 24 * time.Hour
	ReportTTL = 24 * time.Hour
)
