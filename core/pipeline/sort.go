// ABOUTME: Dotted-path sorting over search results with automatic type detection
// ABOUTME: Missing values sort last ascending and first descending

package pipeline

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"search-results-api/core/domain"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// sortValue is one record's extracted sort key
type sortValue struct {
	number  float64
	str     string
	isNum   bool
	present bool
}

// SortResults orders records by the value at a dotted path such as
// "rank" or "metadata.relevance.score". Numbers and RFC 3339 dates
// compare numerically, everything else as strings. Records without a
// value at the path go last ascending and first descending. The sort is
// stable, so equal keys keep their input order.
func SortResults(records []domain.SearchResult, path string, order SortOrder) []domain.SearchResult {
	if path == "" || len(records) < 2 {
		return records
	}

	keys := make([]sortValue, len(records))
	for i := range records {
		keys[i] = extractSortValue(records[i], path)
	}

	out := make([]domain.SearchResult, len(records))
	copy(out, records)

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}

	desc := order == SortDescending
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]

		// Missing values go last ascending, first descending; since the
		// comparison is flipped below, "less" here means first either way
		if ka.present != kb.present {
			if desc {
				return !ka.present
			}
			return ka.present
		}
		if !ka.present {
			return false
		}

		if desc {
			return valueLess(kb, ka)
		}
		return valueLess(ka, kb)
	})

	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}

// valueLess compares two present keys, numerically when both are numbers
func valueLess(a, b sortValue) bool {
	if a.isNum && b.isNum {
		return a.number < b.number
	}
	return a.str < b.str
}

// extractSortValue walks the record's JSON form along the dotted path
func extractSortValue(record domain.SearchResult, path string) sortValue {
	data, err := json.Marshal(record)
	if err != nil {
		return sortValue{}
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return sortValue{}
	}

	var current interface{} = tree
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return sortValue{}
		}
		current, ok = node[segment]
		if !ok || current == nil {
			return sortValue{}
		}
	}

	switch v := current.(type) {
	case float64:
		return sortValue{number: v, isNum: true, present: true}
	case bool:
		n := 0.0
		if v {
			n = 1
		}
		return sortValue{number: n, isNum: true, present: true}
	case string:
		// Timestamps compare numerically so date ordering is not lexical
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return sortValue{number: float64(t.UnixNano()), isNum: true, present: true}
		}
		return sortValue{str: v, present: true}
	default:
		return sortValue{}
	}
}
