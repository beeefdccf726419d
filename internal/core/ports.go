package core

import (
	"context"
)

// AdvisoryClient defines the interface for the conversational advisory
// backend. Implementations answer a free-text user question, optionally
// grounded in a prior analysis report.
type AdvisoryClient interface {
	// Advise returns advisory text for the question.
	Advise(ctx context.Context, question string, report *AnalysisReport) (*Advice, error)
}

// CacheRepository defines the interface for caching verdicts by content
// digest.
type CacheRepository interface {
	// Get retrieves a cached entry for a content digest.
	Get(ctx context.Context, contentDigest string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, contentDigest string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
