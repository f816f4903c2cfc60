// ABOUTME: Similarity scoring between search results - Jaccard titles, Levenshtein URLs
// ABOUTME: Composite score weights title 0.3 and URL 0.7, renormalized over computed components

package dedup

import (
	"strings"

	"search-results-api/core/domain"
)

const (
	titleWeight = 0.3
	urlWeight   = 0.7
)

// TitleSimilarity computes token-set (Jaccard) similarity of two titles.
// Identical strings score 1 before tokenization; tokens are lower-cased
// whitespace-split words longer than one character; an empty token set on
// either side scores 0.
func TitleSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ta := titleTokens(a)
	tb := titleTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for token := range ta {
		if tb[token] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection

	return float64(intersection) / float64(union)
}

// titleTokens lower-cases and splits on whitespace, keeping words longer
// than one character
func titleTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) > 1 {
			tokens[w] = true
		}
	}
	return tokens
}

// EditSimilarity computes 1 - levenshtein(a,b)/max(len(a),len(b)),
// case-insensitive. Equal strings score 1; if either is empty and they
// differ, the score is 0.
func EditSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein computes edit distance with the classic two-row DP
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// CompositeSimilarity computes the weighted similarity between two results.
// The URL component is 1.0 when the normalized URLs are equal, else the
// edit similarity of the normalized forms. The title component is skipped
// when either title is empty, and the remaining weights are renormalized.
func CompositeSimilarity(a, b domain.SearchResult, opts Options) (float64, *domain.SimilarityBreakdown) {
	normA := NormalizeURL(a.URL, opts)
	normB := NormalizeURL(b.URL, opts)

	urlScore := 1.0
	if normA != normB {
		urlScore = EditSimilarity(normA, normB)
	}

	breakdown := &domain.SimilarityBreakdown{URLScore: urlScore}

	weightSum := urlWeight
	weighted := urlWeight * urlScore

	if strings.TrimSpace(a.Title) != "" && strings.TrimSpace(b.Title) != "" {
		titleScore := TitleSimilarity(a.Title, b.Title)
		breakdown.TitleScore = titleScore
		weightSum += titleWeight
		weighted += titleWeight * titleScore
		breakdown.TitleWeight = titleWeight / weightSum
	}
	breakdown.URLWeight = urlWeight / weightSum

	return weighted / weightSum, breakdown
}
