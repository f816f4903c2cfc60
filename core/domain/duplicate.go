// ABOUTME: Duplicate group and audit log models produced by the deduplication engine
// ABOUTME: Defines match reasons and per-match similarity breakdowns

package domain

// MatchReason identifies why two results were judged to be the same entity
type MatchReason string

const (
	// MatchReasonURL means the normalized URLs were byte-equal
	MatchReasonURL MatchReason = "url_match"

	// MatchReasonTitleSimilarity means the composite similarity score
	// exceeded the configured threshold on a same-domain pair
	MatchReasonTitleSimilarity MatchReason = "title_similarity"
)

// SimilarityBreakdown records the per-field scores behind a composite score
type SimilarityBreakdown struct {
	// TitleScore is the Jaccard token-set similarity of the two titles
	TitleScore float64 `json:"titleScore"`

	// URLScore is 1.0 for normalized-equal URLs, else the edit similarity
	// of their normalized forms
	URLScore float64 `json:"urlScore"`

	// Weights actually applied after renormalization over computed components
	TitleWeight float64 `json:"titleWeight"`
	URLWeight   float64 `json:"urlWeight"`
}

// DuplicateMatch is one removed (or merged-away) result with the evidence
// that matched it against the group's original
type DuplicateMatch struct {
	Result     SearchResult         `json:"result"`
	Reason     MatchReason          `json:"reason"`
	Similarity float64              `json:"similarity"`
	Breakdown  *SimilarityBreakdown `json:"breakdown,omitempty"`
}

// DuplicateGroup is one kept result plus the ordered matches folded into it
type DuplicateGroup struct {
	// Original is the kept result. After a merge it is the merged record;
	// it always occupies the earliest arrival's position.
	Original SearchResult `json:"original"`

	// OriginalIndex is the kept result's position in the output batch.
	// It identifies the group unambiguously even when two kept records
	// share a URL.
	OriginalIndex int `json:"originalIndex"`

	Duplicates []DuplicateMatch `json:"duplicates"`
}

// DuplicateLogEntry is an audit record for one duplicate decision.
// Entries are for caller transparency only - the matching algorithm
// never consumes them.
type DuplicateLogEntry struct {
	Original   SearchResult         `json:"original"`
	Duplicate  SearchResult         `json:"duplicate"`
	Reason     MatchReason          `json:"reason"`
	Similarity float64              `json:"similarity,omitempty"`
	Breakdown  *SimilarityBreakdown `json:"breakdown,omitempty"`

	// NormalizedOriginalURL and NormalizedDuplicateURL are recorded for
	// url_match decisions
	NormalizedOriginalURL  string `json:"normalizedOriginalUrl,omitempty"`
	NormalizedDuplicateURL string `json:"normalizedDuplicateUrl,omitempty"`
}
