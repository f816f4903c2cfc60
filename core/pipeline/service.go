// ABOUTME: Result pipeline facade - filtering, deduplication, enrichment and sorting in one pass
// ABOUTME: Stages are independently toggleable and degrade to pass-through when unavailable

package pipeline

import (
	"context"
	"time"

	"search-results-api/core/dedup"
	"search-results-api/core/enrichment"
	"search-results-api/core/interfaces"

	"search-results-api/core/domain"
)

// Options selects the stages and parameters for one processing run
type Options struct {
	// FilterSetID names the filter set to apply; empty skips filtering
	FilterSetID string `json:"filterSetId,omitempty"`

	// Deduplicate toggles the deduplication stage
	Deduplicate bool `json:"deduplicate"`

	// DedupOverrides adjusts engine defaults for this run only
	DedupOverrides *dedup.Overrides `json:"dedupOverrides,omitempty"`

	// Enrich toggles the enrichment pipeline stage
	Enrich bool `json:"enrich"`

	// SortBy is a dotted path into the result's JSON form; empty skips sorting
	SortBy string `json:"sortBy,omitempty"`

	// SortOrder is asc or desc, defaulting to asc
	SortOrder SortOrder `json:"sortOrder,omitempty"`
}

// DefaultOptions enables deduplication and enrichment with no filtering
// or sorting
func DefaultOptions() Options {
	return Options{
		Deduplicate: true,
		Enrich:      true,
		SortOrder:   SortAscending,
	}
}

// Result is the outcome of one processing run
type Result struct {
	// Results are the processed records
	Results []domain.SearchResult `json:"results"`

	// OriginalCount is the input batch size
	OriginalCount int `json:"originalCount"`

	// FilteredCount is how many records the filter stage removed
	FilteredCount int `json:"filteredCount"`

	// DuplicatesRemoved is how many records the dedup stage removed
	DuplicatesRemoved int `json:"duplicatesRemoved"`

	// DuplicateGroups describes what was folded into each kept record
	DuplicateGroups []domain.DuplicateGroup `json:"duplicateGroups,omitempty"`

	// EnrichedCount is how many records passed through enrichment
	EnrichedCount int `json:"enrichedCount"`

	// RuleStats holds per-rule match counts from the filter stage
	RuleStats []interfaces.RuleMatchStats `json:"ruleStats,omitempty"`

	// ModuleMetrics holds per-module enrichment timings when enabled
	ModuleMetrics []enrichment.ModuleMetrics `json:"moduleMetrics,omitempty"`

	// ProcessingTimeMs is the wall-clock duration of the whole run
	ProcessingTimeMs float64 `json:"processingTimeMs"`
}

// Service chains the processing stages behind one call. Any collaborator
// may be nil; its stage then passes records through unchanged.
type Service struct {
	filter     interfaces.FilterService
	engine     *dedup.Engine
	enrichment *enrichment.Pipeline
	logger     interfaces.Logger
}

// NewService assembles the pipeline facade
func NewService(filter interfaces.FilterService, engine *dedup.Engine, enrich *enrichment.Pipeline, logger interfaces.Logger) *Service {
	return &Service{
		filter:     filter,
		engine:     engine,
		enrichment: enrich,
		logger:     logger,
	}
}

// Enrichment exposes the enrichment pipeline for module management
func (s *Service) Enrichment() *enrichment.Pipeline { return s.enrichment }

// Engine exposes the deduplication engine for option management
func (s *Service) Engine() *dedup.Engine { return s.engine }

// Process runs the batch through filter, dedup, enrichment and sort.
// Stage order is fixed; disabled or unavailable stages are skipped.
func (s *Service) Process(ctx context.Context, records []domain.SearchResult, opts Options) (*Result, error) {
	start := time.Now()

	out := &Result{OriginalCount: len(records)}
	current := records

	if opts.FilterSetID != "" && s.filter != nil {
		outcome, err := s.filter.ApplyFilterSet(ctx, opts.FilterSetID, current)
		if err != nil {
			// Filtering is advisory: a broken filter set never loses results
			if s.logger != nil {
				s.logger.Warn("Filter stage failed, passing results through", map[string]interface{}{
					"filterSetId": opts.FilterSetID,
					"error":       err.Error(),
				})
			}
		} else {
			out.FilteredCount = len(outcome.Excluded)
			out.RuleStats = outcome.RuleStats
			current = outcome.Filtered
		}
	}

	if opts.Deduplicate && s.engine != nil {
		outcome := s.engine.Deduplicate(current, opts.DedupOverrides)
		out.DuplicatesRemoved = outcome.DuplicatesRemoved
		out.DuplicateGroups = outcome.DuplicateGroups
		current = outcome.Results
	}

	if opts.Enrich && s.enrichment != nil {
		var metrics []enrichment.ModuleMetrics
		current, metrics = s.enrichment.Process(ctx, current)
		out.ModuleMetrics = metrics
		out.EnrichedCount = len(current)
	}

	if opts.SortBy != "" {
		order := opts.SortOrder
		if order == "" {
			order = SortAscending
		}
		current = SortResults(current, opts.SortBy, order)
	}

	out.Results = current
	out.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	if s.logger != nil {
		s.logger.Info("Processed result batch", map[string]interface{}{
			"input":      out.OriginalCount,
			"output":     len(out.Results),
			"filtered":   out.FilteredCount,
			"duplicates": out.DuplicatesRemoved,
			"durationMs": out.ProcessingTimeMs,
		})
	}

	return out, nil
}
