// Package cache stores rendered artifacts and fetched records.
//
// Backends implement [Cache]:
//   - [FileCache]: sharded JSON files, for the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: disables caching (--no-cache)
//
// Keys are built by a [Keyer] so that every backend sees the same layout
// of namespaces: "record:" for loaded family trees and "artifact:" for
// rendered output.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// RecordTTL bounds how long a record fetched from a database is reused.
	RecordTTL = 10 * time.Minute

	// ArtifactTTL bounds how long rendered output is reused. Artifacts are
	// keyed by a hash of their input, so they never go stale.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
