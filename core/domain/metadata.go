// ABOUTME: Metadata container holding namespaced sub-objects written by enrichment stages
// ABOUTME: Enforces the additive merge contract - stages set their own key, never clobber others

package domain

import "time"

// Metadata is the container for derived data attached to a result.
// Each enrichment stage owns exactly one field and must leave every
// other field untouched. A nil field means the stage has not run.
type Metadata struct {
	Readability   *ReadabilityMetadata   `json:"readability,omitempty"`
	ContentType   *ContentTypeMetadata   `json:"contentType,omitempty"`
	Relevance     *RelevanceMetadata     `json:"relevance,omitempty"`
	Deduplication *DeduplicationMetadata `json:"deduplication,omitempty"`
	Page          *PageMetadata          `json:"page,omitempty"`
	Merge         *MergeMetadata         `json:"merge,omitempty"`

	// Extra carries caller-supplied keys that no enrichment stage owns.
	// Stages must preserve it as-is.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// clone copies the container. Sub-objects are immutable once attached
// and are shared; the Extra map is copied so callers can add keys safely.
func (m Metadata) clone() Metadata {
	out := m
	if m.Extra != nil {
		out.Extra = make(map[string]interface{}, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// ReadabilityMetadata holds the outcome of readability analysis
type ReadabilityMetadata struct {
	// Analyzed is false when the text was too short to score
	Analyzed bool `json:"analyzed"`

	// Reason explains why analysis was skipped (empty when Analyzed)
	Reason string `json:"reason,omitempty"`

	// Score is the Flesch Reading Ease score in [0,100], nil when skipped
	Score *float64 `json:"score"`

	// Level is the mapped difficulty level: easy, moderate, difficult,
	// very difficult, or unknown when not analyzed
	Level string `json:"level"`

	// Counts feeding the score, zero when analysis was skipped
	Words     int `json:"words,omitempty"`
	Sentences int `json:"sentences,omitempty"`
	Syllables int `json:"syllables,omitempty"`
}

// ContentTypeMetadata holds file-type, category and provenance signals
// derived from the result's URL and snippet
type ContentTypeMetadata struct {
	FileType string `json:"fileType"`

	Category           string  `json:"category"`
	CategoryConfidence float64 `json:"categoryConfidence"`

	// PublishedDate is extracted from the snippet text when a known
	// date pattern matches
	PublishedDate  *time.Time `json:"publishedDate,omitempty"`
	DateRaw        string     `json:"dateRaw,omitempty"`
	DateConfidence float64    `json:"dateConfidence,omitempty"`

	Academic        bool `json:"academic"`
	AcademicSignals int  `json:"academicSignals"`

	Language           string  `json:"language"`
	LanguageConfidence float64 `json:"languageConfidence"`

	Organization           string  `json:"organization"`
	OrganizationConfidence float64 `json:"organizationConfidence"`
}

// RelevanceMetadata holds the composite relevance score and its components
type RelevanceMetadata struct {
	Score float64 `json:"score"`

	// Components maps component name (keyword, title, url, recency, rank)
	// to its unweighted score
	Components map[string]float64 `json:"components"`

	// Normalized is true when the score was min-max normalized over the batch
	Normalized bool `json:"normalized"`

	Query string `json:"query"`
}

// DeduplicationMetadata records that a result survived a deduplication pass
type DeduplicationMetadata struct {
	Processed         bool      `json:"processed"`
	DuplicateCount    int       `json:"duplicateCount"`
	DuplicatesRemoved int       `json:"duplicatesRemoved"`
	ProcessedAt       time.Time `json:"processedAt"`
}

// PageMetadata holds data scraped from the result's page itself
type PageMetadata struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
}

// MergeMetadata records how a merged result was assembled
type MergeMetadata struct {
	// Strategy is the name of the merge strategy applied
	Strategy string `json:"strategy"`

	// Provenance maps field name to the provider that supplied its value
	Provenance map[string]string `json:"provenance"`

	MergedAt time.Time `json:"mergedAt"`
}
