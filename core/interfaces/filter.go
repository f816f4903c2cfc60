// ABOUTME: Filter service contract consumed by the result pipeline
// ABOUTME: Defines the closed set of filter rule kinds as a tagged union

package interfaces

import (
	"context"

	"search-results-api/core/domain"
)

// RuleKind discriminates the filter rule variants. The set is closed;
// evaluation code should switch exhaustively over it.
type RuleKind string

const (
	RuleKindDomain     RuleKind = "domain"
	RuleKindKeyword    RuleKind = "keyword"
	RuleKindURLPattern RuleKind = "url_pattern"
	RuleKindFileType   RuleKind = "file_type"
	RuleKindCustom     RuleKind = "custom"
	RuleKindComposite  RuleKind = "composite"
)

// FilterRule is one rule in a filter set. Exactly the fields for its Kind
// are populated.
type FilterRule struct {
	ID   string   `json:"id"`
	Kind RuleKind `json:"kind"`

	// Domain rules exclude results whose hostname matches
	Domain string `json:"domain,omitempty"`

	// Keyword rules exclude results whose title or snippet contains the keyword
	Keyword string `json:"keyword,omitempty"`

	// URLPattern rules exclude results whose URL matches the pattern
	URLPattern string `json:"urlPattern,omitempty"`

	// FileType rules exclude results with the given file extension
	FileType string `json:"fileType,omitempty"`

	// Custom rules are evaluated by the filter service implementation
	CustomName string `json:"customName,omitempty"`

	// Composite rules combine child rules with the given operator (and/or)
	Operator string       `json:"operator,omitempty"`
	Children []FilterRule `json:"children,omitempty"`
}

// RuleMatchStats counts how often one rule matched during a filter pass
type RuleMatchStats struct {
	RuleID  string `json:"ruleId"`
	Matches int    `json:"matches"`
}

// FilterOutcome is the result of applying a filter set to a batch
type FilterOutcome struct {
	// Filtered are the surviving results, input order preserved
	Filtered []domain.SearchResult `json:"filtered"`

	// Excluded are the removed results
	Excluded []domain.SearchResult `json:"excluded"`

	// RuleStats holds per-rule match counts
	RuleStats []RuleMatchStats `json:"ruleStats"`
}

// FilterService applies a named filter set to a batch of results.
// The result pipeline treats it as an external collaborator and passes
// the batch through unchanged when no service is configured.
type FilterService interface {
	// ApplyFilterSet filters the batch using the rule set registered
	// under filterSetID
	ApplyFilterSet(ctx context.Context, filterSetID string, results []domain.SearchResult) (*FilterOutcome, error)
}
