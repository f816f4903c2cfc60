// ABOUTME: Relevance module - query-dependent scoring over keyword, title, URL, recency, rank
// ABOUTME: Batch processing optionally caps the top score at 1 via max-normalization

package enrichment

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"search-results-api/core/domain"
)

// RelevanceWeights holds the per-component weights. Weights are
// renormalized over the components actually computed for a record.
type RelevanceWeights struct {
	Keyword float64
	Title   float64
	URL     float64
	Recency float64
	Rank    float64
}

// RelevanceConfig controls the relevance module
type RelevanceConfig struct {
	Enabled bool

	// Query is the search query the batch was retrieved for. The module
	// passes records through untouched until a query is set.
	Query string

	Weights RelevanceWeights

	// MaxAgeDays is the window for linear recency decay
	MaxAgeDays int

	// MinimumRelevanceThreshold zeroes scores below it
	MinimumRelevanceThreshold float64

	// NormalizeBatch caps the batch's top score at 1 during ProcessBatch
	NormalizeBatch bool
}

// DefaultRelevanceConfig returns the module defaults
func DefaultRelevanceConfig() RelevanceConfig {
	return RelevanceConfig{
		Enabled: true,
		Weights: RelevanceWeights{
			Keyword: 0.4,
			Title:   0.25,
			URL:     0.15,
			Recency: 0.1,
			Rank:    0.1,
		},
		MaxAgeDays:                365,
		MinimumRelevanceThreshold: 0.05,
		NormalizeBatch:            true,
	}
}

// queryStopWords are removed when extracting keywords from the query
var queryStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "with": true, "is": true,
	"are": true, "was": true, "what": true, "how": true, "why": true,
}

// resultsPerPage feeds the rank decay: scores fall linearly and reach
// zero three pages in
const resultsPerPage = 10
const rankDecayWindow = 3 * resultsPerPage

// RelevanceModule scores how well each record matches the active query
type RelevanceModule struct {
	mu     sync.RWMutex
	config RelevanceConfig
	now    func() time.Time
}

// NewRelevanceModule creates the module with the given config
func NewRelevanceModule(config RelevanceConfig) *RelevanceModule {
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = DefaultRelevanceConfig().MaxAgeDays
	}
	return &RelevanceModule{config: config, now: time.Now}
}

// Name implements Module
func (m *RelevanceModule) Name() string { return "relevance" }

// Enabled implements Module
func (m *RelevanceModule) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Enabled
}

// Config returns the module configuration
func (m *RelevanceModule) Config() RelevanceConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// UpdateConfig replaces the module configuration
func (m *RelevanceModule) UpdateConfig(config RelevanceConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = DefaultRelevanceConfig().MaxAgeDays
	}
	m.config = config
}

// SetQuery sets the query subsequent calls score against
func (m *RelevanceModule) SetQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Query = query
}

// Process scores a single record against the active query
func (m *RelevanceModule) Process(_ context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	config := m.Config()
	if strings.TrimSpace(config.Query) == "" {
		return record, nil
	}

	score, components := m.score(config, record)

	out := record.Clone()
	out.Metadata.Relevance = &domain.RelevanceMetadata{
		Score:      score,
		Components: components,
		Query:      config.Query,
	}
	return out, nil
}

// ProcessBatch scores every record, then optionally normalizes the
// batch so the top score is 1. Normalization depends on batch
// composition, so reprocessing a different batch yields different
// normalized scores for the same record.
func (m *RelevanceModule) ProcessBatch(ctx context.Context, records []domain.SearchResult) ([]domain.SearchResult, error) {
	config := m.Config()
	if strings.TrimSpace(config.Query) == "" {
		return records, nil
	}

	out := make([]domain.SearchResult, len(records))
	maxScore := 0.0
	for i, record := range records {
		enriched, err := m.Process(ctx, record)
		if err != nil {
			return nil, err
		}
		out[i] = enriched
		if rel := enriched.Metadata.Relevance; rel != nil && rel.Score > maxScore {
			maxScore = rel.Score
		}
	}

	if config.NormalizeBatch && maxScore > 0 {
		for i := range out {
			rel := out[i].Metadata.Relevance
			if rel == nil {
				continue
			}
			normalized := *rel
			normalized.Score = rel.Score / maxScore
			normalized.Normalized = true
			out[i].Metadata.Relevance = &normalized
		}
	}

	return out, nil
}

// score combines the computed components under renormalized weights
func (m *RelevanceModule) score(config RelevanceConfig, record domain.SearchResult) (float64, map[string]float64) {
	keywords := extractKeywords(config.Query)
	components := make(map[string]float64)

	weightSum := 0.0
	weighted := 0.0
	add := func(name string, value, weight float64) {
		components[name] = value
		weightSum += weight
		weighted += weight * value
	}

	if len(keywords) > 0 {
		add("keyword", keywordScore(keywords, record), config.Weights.Keyword)
		add("url", urlScore(keywords, record.URL), config.Weights.URL)
	}
	add("title", titleMatchScore(config.Query, record.Title), config.Weights.Title)

	if !record.Timestamp.IsZero() {
		age := m.now().Sub(record.Timestamp).Hours() / 24
		recency := 1 - age/float64(config.MaxAgeDays)
		if recency < 0 {
			recency = 0
		}
		if recency > 1 {
			recency = 1
		}
		add("recency", recency, config.Weights.Recency)
	}

	if record.Rank > 0 {
		rank := 1 - float64(record.Rank-1)/float64(rankDecayWindow)
		if rank < 0 {
			rank = 0
		}
		add("rank", rank, config.Weights.Rank)
	}

	if weightSum == 0 {
		return 0, components
	}

	score := weighted / weightSum
	if score < config.MinimumRelevanceThreshold {
		score = 0
	}
	return score, components
}

// extractKeywords removes stop words and words of two characters or less
func extractKeywords(query string) []string {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,!?;:'\"()")
		if len(w) <= 2 || queryStopWords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// keywordScore counts keyword occurrences in snippet and title with
// diminishing returns per repeat; title hits count extra
func keywordScore(keywords []string, record domain.SearchResult) float64 {
	snippet := strings.ToLower(record.Snippet)
	title := strings.ToLower(record.Title)

	total := 0.0
	for _, kw := range keywords {
		hits := strings.Count(snippet, kw)
		contribution := 0.0
		for i := 0; i < hits; i++ {
			// 1 + 1/2 + 1/3 + ... per repeat
			contribution += 1.0 / float64(i+1)
		}
		if strings.Contains(title, kw) {
			contribution += 1.5
		}
		total += math.Min(contribution, 3.0)
	}

	// Cap at one fully-matched keyword set
	score := total / (3.0 * float64(len(keywords)))
	return math.Min(score, 1)
}

// titleMatchScore is tiered: exact > prefix > contains > word overlap
func titleMatchScore(query, title string) float64 {
	q := strings.TrimSpace(strings.ToLower(query))
	t := strings.TrimSpace(strings.ToLower(title))
	if q == "" || t == "" {
		return 0
	}

	switch {
	case t == q:
		return 1.0
	case strings.HasPrefix(t, q):
		return 0.8
	case strings.Contains(t, q):
		return 0.6
	}

	queryWords := strings.Fields(q)
	titleWords := make(map[string]bool)
	for _, w := range strings.Fields(t) {
		titleWords[w] = true
	}
	overlap := 0
	for _, w := range queryWords {
		if titleWords[w] {
			overlap++
		}
	}
	if len(queryWords) == 0 {
		return 0
	}
	return 0.4 * float64(overlap) / float64(len(queryWords))
}

// urlScore rewards keywords in the hostname and path, with a bonus for
// shallow paths
func urlScore(keywords []string, raw string) float64 {
	low := strings.ToLower(raw)

	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(low, kw) {
			score += 1.0 / float64(len(keywords))
		}
	}

	// Shallow paths (two segments or fewer) get a bonus
	if depth := strings.Count(strings.SplitN(strings.TrimPrefix(low, "https://"), "?", 2)[0], "/"); depth <= 2 {
		score += 0.2
	}

	return math.Min(score, 1)
}
