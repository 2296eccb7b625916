// Package cache provides byte-oriented caches and cache key derivation.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled, tests)
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the analysis service (serve --cache redis)
//
// Keys are derived by a [Keyer] so that the CLI, the pipeline and the server
// agree on naming. [ScopedKeyer] prefixes every key for namespace isolation.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.AnalysisKey(1342, 4)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
//	_ = c.Set(ctx, key, data, 24*time.Hour)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind.
const (
	// AnalysisTTL bounds how long an extracted relationship graph is reused.
	// Extraction is the expensive step (book download + LLM call).
	AnalysisTTL = 7 * 24 * time.Hour

	// HTTPTTL is the TTL for raw HTTP responses such as Gutenberg index pages.
	HTTPTTL = 24 * time.Hour

	// LayoutTTL is the TTL for computed layouts.
	LayoutTTL = 24 * time.Hour
)
