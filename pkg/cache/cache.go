// Package cache stores rendered chart artifacts keyed by their inputs.
//
// Rendering a frame is deterministic: the same dataset, configuration and
// scripted interaction always produce the same bytes. The pipeline hashes
// those inputs with a [Keyer] and keeps the output in a [Cache]:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance `serve` deployments
//   - [NullCache]: disables caching
//
// Wrap any backend with [Instrument] to report hits and misses through the
// observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// ArtifactTTL is how long rendered frames are kept.
	ArtifactTTL = 7 * 24 * time.Hour
)
