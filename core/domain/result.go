// ABOUTME: SearchResult domain model represents a single result returned by a search provider
// ABOUTME: Provides validation and copy-on-write cloning for pipeline stages

package domain

import "time"

// SearchResult represents an individual result from a search engine.
// Results are treated as immutable value objects: pipeline stages that
// change a result must operate on a Clone, never mutate in place.
type SearchResult struct {
	// Title is the result's headline
	Title string `json:"title"`

	// URL is the absolute URL of the result
	URL string `json:"url"`

	// Snippet is the short excerpt returned by the provider
	Snippet string `json:"snippet"`

	// Provider identifies the originating search engine (e.g. "brave", "serpapi")
	Provider string `json:"provider"`

	// Rank is the 1-based position within the provider's ordering
	Rank int `json:"rank"`

	// Timestamp is when the result was retrieved or published
	Timestamp time.Time `json:"timestamp"`

	// Metadata holds derived data attached by enrichment stages
	Metadata Metadata `json:"metadata"`
}

// IsValid checks if the result has all required fields
func (r *SearchResult) IsValid() bool {
	if r.Title == "" {
		return false
	}

	if r.URL == "" {
		return false
	}

	return true
}

// Clone returns a copy of the result safe to modify independently.
// Metadata sub-objects are immutable once attached, so they are shared;
// the open-ended Extra map is copied.
func (r SearchResult) Clone() SearchResult {
	out := r
	out.Metadata = r.Metadata.clone()
	return out
}
