// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Defines contracts for result and duplicate-relationship persistence

package interfaces

import (
	"context"

	"search-results-api/core/domain"
)

// ResultStore persists final results and the duplicate relationships
// discovered while deduplicating a batch
type ResultStore interface {
	// SaveResults persists the final result list for a query
	SaveResults(ctx context.Context, query string, results []domain.SearchResult) error

	// SaveDuplicateGroups persists original/duplicate relationships
	SaveDuplicateGroups(ctx context.Context, query string, groups []domain.DuplicateGroup) error

	// GetResults retrieves the most recently stored results for a query
	GetResults(ctx context.Context, query string) ([]domain.SearchResult, error)
}
