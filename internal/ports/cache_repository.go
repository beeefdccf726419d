package ports

import (
	"context"

	"github.com/mikey/phish-detect/internal/core"
)

// CacheRepository defines the interface for caching analysis verdicts
type CacheRepository interface {
	// Get retrieves a cached entry for a content digest
	Get(ctx context.Context, contentDigest string) (*core.CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *core.CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, contentDigest string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
