// ABOUTME: Enrichment module contract - process one record, optionally a whole batch
// ABOUTME: Modules attach namespaced metadata and never touch other stages' keys

package enrichment

import (
	"context"

	"search-results-api/core/domain"
)

// Module is a pluggable enrichment unit. Process returns a new record
// with the module's metadata attached; it must preserve every metadata
// key it does not own. Implementations are value-semantics friendly:
// the input record is never mutated.
type Module interface {
	// Name is the module's registry identifier
	Name() string

	// Enabled reports whether the pipeline should run this module
	Enabled() bool

	// Process enriches a single record
	Process(ctx context.Context, record domain.SearchResult) (domain.SearchResult, error)
}

// BatchProcessor is implemented by modules that handle a whole batch in
// one call (for example when scoring depends on the batch as a whole).
// The pipeline prefers it over per-item processing when present; modules
// without it get the sequential/parallel per-item path.
type BatchProcessor interface {
	Module

	// ProcessBatch enriches all records in one pass. The returned slice
	// may be shorter than the input (the deduplication module removes
	// records).
	ProcessBatch(ctx context.Context, records []domain.SearchResult) ([]domain.SearchResult, error)
}
