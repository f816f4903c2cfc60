// ABOUTME: Deduplication engine - single pass URL-exact and title-similarity matching
// ABOUTME: Earliest-kept record is always the original; merging folds later arrivals into it

package dedup

import (
	"strings"
	"sync"

	"search-results-api/core/domain"
	"search-results-api/core/interfaces"
)

// Outcome is the result of one deduplication run
type Outcome struct {
	// Results are the kept records, input order preserved
	Results []domain.SearchResult `json:"results"`

	// DuplicatesRemoved is len(input) - len(Results)
	DuplicatesRemoved int `json:"duplicatesRemoved"`

	// DuplicateGroups holds one group per kept record that absorbed
	// at least one duplicate, in kept order
	DuplicateGroups []domain.DuplicateGroup `json:"duplicateGroups"`

	// Logs holds the audit trail when logging is enabled
	Logs []domain.DuplicateLogEntry `json:"logs,omitempty"`
}

// Engine deduplicates batches of search results. The engine holds a
// default option snapshot and a merge strategy registry; per-call state
// lives entirely on the stack of Deduplicate, so one engine instance is
// safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	opts       Options
	strategies map[string]MergeStrategy
	logger     interfaces.Logger
}

// NewEngine creates an engine with the given default options.
// A nil logger disables diagnostic logging.
func NewEngine(opts Options, logger interfaces.Logger) *Engine {
	return &Engine{
		opts:       opts,
		strategies: builtinStrategies(),
		logger:     logger,
	}
}

// Options returns a copy of the engine's stored default options
func (e *Engine) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// UpdateOptions replaces the stored default options wholesale.
// Callers wanting a partial update read Options, modify, and write back.
func (e *Engine) UpdateOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
}

// RegisterStrategy adds or replaces a custom merge strategy by name
func (e *Engine) RegisterStrategy(s MergeStrategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[s.Name] = s
}

// strategy resolves a strategy name, falling back to conservative for
// unknown or empty names
func (e *Engine) strategy(name string) MergeStrategy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if s, ok := e.strategies[name]; ok {
		return s
	}
	return e.strategies[StrategyConservative]
}

// MergeResults merges a duplicate into an original per the named strategy
func (e *Engine) MergeResults(original, duplicate domain.SearchResult, strategyName string) domain.SearchResult {
	return e.strategy(strategyName).merge(original, duplicate)
}

// Deduplicate processes records in input order in a single pass,
// maintaining a growing kept list. Overrides, when non-nil, apply to this
// call only. Count conservation holds: len(Results) + DuplicatesRemoved
// equals len(records).
func (e *Engine) Deduplicate(records []domain.SearchResult, ov *Overrides) Outcome {
	opts := ov.apply(e.Options())

	kept := make([]domain.SearchResult, 0, len(records))
	keptHosts := make([]string, 0, len(records))
	groups := make([]*domain.DuplicateGroup, 0, len(records))
	urlIndex := make(map[string]int, len(records))

	var logs []domain.DuplicateLogEntry

	for _, record := range records {
		norm := NormalizeURL(record.URL, opts)

		// Exact match on normalized URL settles it without further checks
		if opts.EnableURLNormalization {
			if idx, ok := urlIndex[norm]; ok {
				logs = e.foldDuplicate(opts, kept, groups, idx, record, domain.DuplicateMatch{
					Result:     record,
					Reason:     domain.MatchReasonURL,
					Similarity: 1.0,
				}, norm, logs)
				continue
			}
		}

		matchIdx := -1
		var match domain.DuplicateMatch

		if opts.EnableTitleMatching && strings.TrimSpace(record.Title) != "" {
			if host, ok := Hostname(record.URL); ok {
				// Scan in kept-list insertion order; the first record
				// exceeding the threshold wins, no best-of-N selection
				for idx := range kept {
					if !SameDomain(host, keptHosts[idx], opts) {
						continue
					}

					score, breakdown := CompositeSimilarity(kept[idx], record, opts)
					if score > opts.Threshold {
						matchIdx = idx
						match = domain.DuplicateMatch{
							Result:     record,
							Reason:     domain.MatchReasonTitleSimilarity,
							Similarity: score,
							Breakdown:  breakdown,
						}
						break
					}
				}
			}
		}

		if matchIdx >= 0 {
			logs = e.foldDuplicate(opts, kept, groups, matchIdx, record, match, norm, logs)
			continue
		}

		// New kept record
		host, _ := Hostname(record.URL)
		kept = append(kept, record)
		keptHosts = append(keptHosts, host)
		groups = append(groups, nil)
		if _, taken := urlIndex[norm]; !taken {
			urlIndex[norm] = len(kept) - 1
		}
	}

	outcome := Outcome{
		Results:           kept,
		DuplicatesRemoved: len(records) - len(kept),
		Logs:              logs,
	}
	for _, g := range groups {
		if g != nil {
			outcome.DuplicateGroups = append(outcome.DuplicateGroups, *g)
		}
	}

	if e.logger != nil {
		e.logger.Debug("Deduplicated batch", map[string]interface{}{
			"input":   len(records),
			"kept":    len(kept),
			"removed": outcome.DuplicatesRemoved,
			"groups":  len(outcome.DuplicateGroups),
		})
	}

	return outcome
}

// foldDuplicate records the match in the kept record's group, merges when
// enabled (the merged record inherits the original's kept-list position),
// and appends an audit log entry when logging is on
func (e *Engine) foldDuplicate(opts Options, kept []domain.SearchResult, groups []*domain.DuplicateGroup, idx int, record domain.SearchResult, match domain.DuplicateMatch, normDup string, logs []domain.DuplicateLogEntry) []domain.DuplicateLogEntry {
	original := kept[idx]

	if opts.EnableLogging {
		entry := domain.DuplicateLogEntry{
			Original:   original,
			Duplicate:  record,
			Reason:     match.Reason,
			Similarity: match.Similarity,
			Breakdown:  match.Breakdown,
		}
		if match.Reason == domain.MatchReasonURL {
			entry.NormalizedOriginalURL = NormalizeURL(original.URL, opts)
			entry.NormalizedDuplicateURL = normDup
		}
		logs = append(logs, entry)
	}

	if groups[idx] == nil {
		groups[idx] = &domain.DuplicateGroup{Original: original, OriginalIndex: idx}
	}
	groups[idx].Duplicates = append(groups[idx].Duplicates, match)

	if opts.EnableMerging {
		merged := e.MergeResults(original, record, opts.MergeStrategy)
		kept[idx] = merged
		groups[idx].Original = merged
	}

	return logs
}
