// ABOUTME: Deduplication as a pipeline stage - wraps the dedup engine as a batch module
// ABOUTME: The only module whose output batch can be shorter than its input

package enrichment

import (
	"context"
	"sync"
	"time"

	"search-results-api/core/dedup"
	"search-results-api/core/domain"
)

// DedupModule runs the deduplication engine inside the enrichment
// pipeline. Survivors get deduplication metadata describing the pass.
type DedupModule struct {
	mu        sync.RWMutex
	engine    *dedup.Engine
	enabled   bool
	overrides *dedup.Overrides
	now       func() time.Time
}

// NewDedupModule wraps an engine as a pipeline module
func NewDedupModule(engine *dedup.Engine) *DedupModule {
	return &DedupModule{engine: engine, enabled: true, now: time.Now}
}

// Name implements Module
func (m *DedupModule) Name() string { return "deduplication" }

// Enabled implements Module
func (m *DedupModule) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetEnabled toggles the module
func (m *DedupModule) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// SetOverrides installs call-scoped engine overrides used on every batch
// this module processes. Pass nil to fall back to engine defaults.
func (m *DedupModule) SetOverrides(ov *dedup.Overrides) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = ov
}

// Engine exposes the wrapped engine for option and strategy management
func (m *DedupModule) Engine() *dedup.Engine { return m.engine }

// Process handles the degenerate single-record case: a batch of one has
// nothing to deduplicate against, so the record is stamped and returned.
func (m *DedupModule) Process(ctx context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	out, err := m.ProcessBatch(ctx, []domain.SearchResult{record})
	if err != nil {
		return record, err
	}
	return out[0], nil
}

// ProcessBatch deduplicates the batch and stamps every survivor
func (m *DedupModule) ProcessBatch(_ context.Context, records []domain.SearchResult) ([]domain.SearchResult, error) {
	m.mu.RLock()
	ov := m.overrides
	m.mu.RUnlock()

	outcome := m.engine.Deduplicate(records, ov)

	// Groups are keyed by kept-list position; URLs can repeat across
	// kept records when URL matching is disabled
	groupSizes := make(map[int]int, len(outcome.DuplicateGroups))
	for _, g := range outcome.DuplicateGroups {
		groupSizes[g.OriginalIndex] = len(g.Duplicates)
	}

	stamped := make([]domain.SearchResult, len(outcome.Results))
	processedAt := m.now()
	for i, record := range outcome.Results {
		out := record.Clone()
		out.Metadata.Deduplication = &domain.DeduplicationMetadata{
			Processed:         true,
			DuplicateCount:    groupSizes[i],
			DuplicatesRemoved: outcome.DuplicatesRemoved,
			ProcessedAt:       processedAt,
		}
		stamped[i] = out
	}

	return stamped, nil
}
