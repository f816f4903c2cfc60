// ABOUTME: Search provider interface for external search engine clients
// ABOUTME: Providers return raw result records; rate limiting and retries live in the adapter

package interfaces

import (
	"context"

	"search-results-api/core/domain"
)

// SearchProvider is a client for one external search engine. Implementations
// own their vendor-specific concerns (auth, response parsing, rate limiting,
// retries) and hand back results already normalized to the canonical record
// shape.
type SearchProvider interface {
	// Name identifies the provider (stamped into each result's Provider field)
	Name() string

	// Search runs the query and returns raw results in provider order.
	// A failing provider returns an error; it never panics the aggregation.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
