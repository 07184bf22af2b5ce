// Package cache stores computed layouts and rendered artifacts.
//
// Layout runs are cheap for small diagrams but rendering PNGs and serving
// the same schema to many clients is not, so the pipeline and the HTTP
// service keep results in a [Cache] keyed by content hashes.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for several service instances
//   - [MongoCache]: a collection with a TTL index
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from the diagram hash and the options that affect
// the result, so changing a gap or an output format never returns a stale
// entry. [ScopedKeyer] prefixes every key, which separates tenants or
// versions sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend.
	Close() error
}

// Default time-to-live values used by the pipeline and the server.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// NullCache stores nothing: every Get misses and every write succeeds. It
// backs --no-cache and the "none" backend, so the pipeline recomputes each
// layout.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
