// ABOUTME: Merge strategies for folding duplicate results into the kept record
// ABOUTME: Declarative per-field source preferences with optional field concatenation

package dedup

import (
	"strings"
	"time"

	"search-results-api/core/domain"
)

// Built-in strategy names
const (
	StrategyConservative  = "conservative"
	StrategyComprehensive = "comprehensive"
)

// Mergeable field names
const (
	fieldTitle   = "title"
	fieldURL     = "url"
	fieldSnippet = "snippet"
)

// combineSeparator joins concatenated field values
const combineSeparator = " | "

// MergeStrategy is a named, declarative rule set deciding which source's
// value wins per field when two duplicate results are combined.
type MergeStrategy struct {
	// Name registers the strategy
	Name string

	// FieldPriorities maps a field name (title, url, snippet) to an
	// ordered list of preferred provider identifiers. The first side
	// whose provider is preferred and whose value is non-empty wins.
	FieldPriorities map[string][]string

	// CombineFields are concatenated with a separator instead of
	// replaced, when both sides have a non-empty value
	CombineFields []string
}

// builtinStrategies returns the two built-in strategies. Conservative
// replaces by preference only; comprehensive additionally concatenates
// snippets so no description text is lost.
func builtinStrategies() map[string]MergeStrategy {
	return map[string]MergeStrategy{
		StrategyConservative: {
			Name:            StrategyConservative,
			FieldPriorities: map[string][]string{},
		},
		StrategyComprehensive: {
			Name:            StrategyComprehensive,
			FieldPriorities: map[string][]string{},
			CombineFields:   []string{fieldSnippet},
		},
	}
}

// combines reports whether the strategy concatenates the given field
func (s MergeStrategy) combines(field string) bool {
	for _, f := range s.CombineFields {
		if f == field {
			return true
		}
	}
	return false
}

// merge builds the merged record field by field. The original record is
// the base: rank, provider, timestamp and metadata carry over from it.
func (s MergeStrategy) merge(original, duplicate domain.SearchResult) domain.SearchResult {
	merged := original.Clone()
	provenance := make(map[string]string)

	merged.Title = s.pickField(fieldTitle, original, duplicate, original.Title, duplicate.Title, provenance)
	merged.URL = s.pickField(fieldURL, original, duplicate, original.URL, duplicate.URL, provenance)
	merged.Snippet = s.pickField(fieldSnippet, original, duplicate, original.Snippet, duplicate.Snippet, provenance)

	merged.Metadata.Merge = &domain.MergeMetadata{
		Strategy:   s.Name,
		Provenance: provenance,
		MergedAt:   time.Now().UTC(),
	}

	return merged
}

// pickField resolves one field value and records its provenance
func (s MergeStrategy) pickField(field string, original, duplicate domain.SearchResult, origValue, dupValue string, provenance map[string]string) string {
	if s.combines(field) && strings.TrimSpace(origValue) != "" && strings.TrimSpace(dupValue) != "" {
		provenance[field] = original.Provider + "+" + duplicate.Provider
		if origValue == dupValue {
			return origValue
		}
		return origValue + combineSeparator + dupValue
	}

	for _, preferred := range s.FieldPriorities[field] {
		if original.Provider == preferred && strings.TrimSpace(origValue) != "" {
			provenance[field] = original.Provider
			return origValue
		}
		if duplicate.Provider == preferred && strings.TrimSpace(dupValue) != "" {
			provenance[field] = duplicate.Provider
			return dupValue
		}
	}

	// No preferred source supplied the field: prefer original, else duplicate
	if strings.TrimSpace(origValue) != "" {
		provenance[field] = original.Provider
		return origValue
	}
	if strings.TrimSpace(dupValue) != "" {
		provenance[field] = duplicate.Provider
		return dupValue
	}
	provenance[field] = original.Provider
	return origValue
}
