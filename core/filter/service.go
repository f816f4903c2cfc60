// ABOUTME: Filter service - applies named sets of exclusion rules to result batches
// ABOUTME: Rule kinds form a closed union; composite rules nest with and/or operators

package filter

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"search-results-api/core/dedup"
	"search-results-api/core/domain"
	"search-results-api/core/interfaces"
)

// CustomRuleFunc evaluates a custom rule against one record. True means
// the record is excluded.
type CustomRuleFunc func(record domain.SearchResult) bool

// Service implements the FilterService interface with an in-memory
// registry of filter sets
type Service struct {
	mu      sync.RWMutex
	sets    map[string][]interfaces.FilterRule
	customs map[string]CustomRuleFunc
	logger  interfaces.Logger
}

// NewService creates an empty filter service
func NewService(logger interfaces.Logger) *Service {
	return &Service{
		sets:    make(map[string][]interfaces.FilterRule),
		customs: make(map[string]CustomRuleFunc),
		logger:  logger,
	}
}

// RegisterFilterSet stores (or replaces) a named rule set
func (s *Service) RegisterFilterSet(id string, rules []interfaces.FilterRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[id] = append([]interfaces.FilterRule(nil), rules...)
}

// RegisterCustomRule binds an evaluator to a custom rule name
func (s *Service) RegisterCustomRule(name string, fn CustomRuleFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customs[name] = fn
}

// ApplyFilterSet filters the batch using the named rule set. A record is
// excluded when any top-level rule matches it.
func (s *Service) ApplyFilterSet(_ context.Context, filterSetID string, results []domain.SearchResult) (*interfaces.FilterOutcome, error) {
	s.mu.RLock()
	rules, ok := s.sets[filterSetID]
	customs := s.customs
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("filter set %q not registered", filterSetID)
	}

	matches := make(map[string]int, len(rules))
	outcome := &interfaces.FilterOutcome{}

	for _, record := range results {
		excluded := false
		for _, rule := range rules {
			if s.evaluate(rule, record, customs) {
				matches[rule.ID]++
				excluded = true
				break
			}
		}
		if excluded {
			outcome.Excluded = append(outcome.Excluded, record)
		} else {
			outcome.Filtered = append(outcome.Filtered, record)
		}
	}

	// Stats follow rule-set order, counting zero-match rules too
	for _, rule := range rules {
		outcome.RuleStats = append(outcome.RuleStats, interfaces.RuleMatchStats{
			RuleID:  rule.ID,
			Matches: matches[rule.ID],
		})
	}

	if s.logger != nil {
		s.logger.Debug("Applied filter set", map[string]interface{}{
			"filterSetId": filterSetID,
			"input":       len(results),
			"excluded":    len(outcome.Excluded),
		})
	}

	return outcome, nil
}

// evaluate reports whether one rule matches a record
func (s *Service) evaluate(rule interfaces.FilterRule, record domain.SearchResult, customs map[string]CustomRuleFunc) bool {
	switch rule.Kind {
	case interfaces.RuleKindDomain:
		host, ok := dedup.Hostname(record.URL)
		if !ok {
			return false
		}
		target := strings.ToLower(rule.Domain)
		return host == target || strings.HasSuffix(host, "."+target)

	case interfaces.RuleKindKeyword:
		needle := strings.ToLower(rule.Keyword)
		if needle == "" {
			return false
		}
		return strings.Contains(strings.ToLower(record.Title), needle) ||
			strings.Contains(strings.ToLower(record.Snippet), needle)

	case interfaces.RuleKindURLPattern:
		if rule.URLPattern == "" {
			return false
		}
		return strings.Contains(strings.ToLower(record.URL), strings.ToLower(rule.URLPattern))

	case interfaces.RuleKindFileType:
		ext := strings.TrimPrefix(strings.ToLower(rule.FileType), ".")
		if ext == "" {
			return false
		}
		got := strings.TrimPrefix(strings.ToLower(path.Ext(urlPath(record.URL))), ".")
		return got == ext

	case interfaces.RuleKindCustom:
		fn, ok := customs[rule.CustomName]
		if !ok {
			return false
		}
		return fn(record)

	case interfaces.RuleKindComposite:
		return s.evaluateComposite(rule, record, customs)

	default:
		return false
	}
}

// evaluateComposite combines child rules with the rule's operator.
// Unknown operators behave as "and"; an empty child list never matches.
func (s *Service) evaluateComposite(rule interfaces.FilterRule, record domain.SearchResult, customs map[string]CustomRuleFunc) bool {
	if len(rule.Children) == 0 {
		return false
	}

	if strings.EqualFold(rule.Operator, "or") {
		for _, child := range rule.Children {
			if s.evaluate(child, record, customs) {
				return true
			}
		}
		return false
	}

	for _, child := range rule.Children {
		if !s.evaluate(child, record, customs) {
			return false
		}
	}
	return true
}

// urlPath extracts the path portion of a URL for extension matching
func urlPath(raw string) string {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i:]
	}
	return ""
}
