// ABOUTME: Filters handler - manages named filter rule sets
// ABOUTME: Exposes PUT /api/filters/{id} for registering rule sets

package handlers

import (
	"encoding/json"
	"net/http"

	"search-results-api/core/filter"
	"search-results-api/core/interfaces"
)

// FiltersHandler manages filter set registration
type FiltersHandler struct {
	filters *filter.Service
}

// NewFiltersHandler creates a new filters handler
func NewFiltersHandler(filters *filter.Service) *FiltersHandler {
	return &FiltersHandler{filters: filters}
}

// filterSetRequest is the PUT /api/filters/{id} body
type filterSetRequest struct {
	Rules []interfaces.FilterRule `json:"rules"`
}

// filterSetResponse acknowledges a registered filter set
type filterSetResponse struct {
	ID        string `json:"id"`
	RuleCount int    `json:"ruleCount"`
}

// PutFilterSet handles the PUT /api/filters/{id} endpoint
func (h *FiltersHandler) PutFilterSet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing filter set ID"})
		return
	}

	var req filterSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if err := validateRules(req.Rules); err != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err})
		return
	}

	h.filters.RegisterFilterSet(id, req.Rules)

	writeJSON(w, http.StatusOK, filterSetResponse{ID: id, RuleCount: len(req.Rules)})
}

// validateRules checks every rule names a known kind and carries the
// field its kind requires. Returns an empty string when valid.
func validateRules(rules []interfaces.FilterRule) string {
	for _, rule := range rules {
		switch rule.Kind {
		case interfaces.RuleKindDomain:
			if rule.Domain == "" {
				return "Domain rule requires a domain"
			}
		case interfaces.RuleKindKeyword:
			if rule.Keyword == "" {
				return "Keyword rule requires a keyword"
			}
		case interfaces.RuleKindURLPattern:
			if rule.URLPattern == "" {
				return "URL pattern rule requires a pattern"
			}
		case interfaces.RuleKindFileType:
			if rule.FileType == "" {
				return "File type rule requires an extension"
			}
		case interfaces.RuleKindCustom:
			if rule.CustomName == "" {
				return "Custom rule requires a name"
			}
		case interfaces.RuleKindComposite:
			if len(rule.Children) == 0 {
				return "Composite rule requires child rules"
			}
			if msg := validateRules(rule.Children); msg != "" {
				return msg
			}
		default:
			return "Unknown rule kind: " + string(rule.Kind)
		}
	}
	return ""
}
