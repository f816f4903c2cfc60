// ABOUTME: Readability module - Flesch Reading Ease scoring over result snippets
// ABOUTME: Skips analysis on short text and maps scores to configurable difficulty levels

package enrichment

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"search-results-api/core/domain"
)

// ReadabilityConfig controls the readability module
type ReadabilityConfig struct {
	// Enabled toggles the module in the pipeline
	Enabled bool

	// MinCharactersForAnalysis is the minimum text length to score
	MinCharactersForAnalysis int

	// IncludeTitle analyzes snippet+title instead of snippet alone
	IncludeTitle bool

	// Level thresholds: a score at or above the threshold maps to the level
	EasyThreshold      float64
	ModerateThreshold  float64
	DifficultThreshold float64
}

// DefaultReadabilityConfig returns the module defaults
func DefaultReadabilityConfig() ReadabilityConfig {
	return ReadabilityConfig{
		Enabled:                  true,
		MinCharactersForAnalysis: 50,
		IncludeTitle:             false,
		EasyThreshold:            80,
		ModerateThreshold:        50,
		DifficultThreshold:       30,
	}
}

var (
	sentenceEndPattern = regexp.MustCompile(`[.!?]\s`)
	wordPattern        = regexp.MustCompile(`\b\w+\b`)
	vowelGroupPattern  = regexp.MustCompile(`[aeiouy]+`)
)

// ReadabilityModule scores how easy a result's text is to read
type ReadabilityModule struct {
	mu     sync.RWMutex
	config ReadabilityConfig
}

// NewReadabilityModule creates the module with the given config
func NewReadabilityModule(config ReadabilityConfig) *ReadabilityModule {
	if config.MinCharactersForAnalysis <= 0 {
		config.MinCharactersForAnalysis = DefaultReadabilityConfig().MinCharactersForAnalysis
	}
	return &ReadabilityModule{config: config}
}

// Name implements Module
func (m *ReadabilityModule) Name() string { return "readability" }

// Enabled implements Module
func (m *ReadabilityModule) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Enabled
}

// Config returns the module configuration
func (m *ReadabilityModule) Config() ReadabilityConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// UpdateConfig replaces the module configuration
func (m *ReadabilityModule) UpdateConfig(config ReadabilityConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// Process attaches readability metadata to the record
func (m *ReadabilityModule) Process(_ context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	config := m.Config()

	text := record.Snippet
	if config.IncludeTitle {
		text = strings.TrimSpace(record.Title + " " + record.Snippet)
	}

	out := record.Clone()

	if len(text) < config.MinCharactersForAnalysis {
		out.Metadata.Readability = &domain.ReadabilityMetadata{
			Analyzed: false,
			Reason:   "insufficient content",
			Score:    nil,
			Level:    "unknown",
		}
		return out, nil
	}

	words := wordPattern.FindAllString(text, -1)
	wordCount := len(words)
	if wordCount == 0 {
		out.Metadata.Readability = &domain.ReadabilityMetadata{
			Analyzed: false,
			Reason:   "insufficient content",
			Score:    nil,
			Level:    "unknown",
		}
		return out, nil
	}

	// Sentence boundaries are terminators followed by whitespace, plus
	// one for the final sentence
	sentenceCount := len(sentenceEndPattern.FindAllString(text, -1)) + 1

	syllableCount := 0
	for _, w := range words {
		syllableCount += estimateSyllables(w)
	}

	score := 206.835 -
		1.015*(float64(wordCount)/float64(sentenceCount)) -
		84.6*(float64(syllableCount)/float64(wordCount))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	out.Metadata.Readability = &domain.ReadabilityMetadata{
		Analyzed:  true,
		Score:     &score,
		Level:     config.level(score),
		Words:     wordCount,
		Sentences: sentenceCount,
		Syllables: syllableCount,
	}

	return out, nil
}

// level maps a score to a difficulty level via the configured thresholds
func (c ReadabilityConfig) level(score float64) string {
	switch {
	case score >= c.EasyThreshold:
		return "easy"
	case score >= c.ModerateThreshold:
		return "moderate"
	case score >= c.DifficultThreshold:
		return "difficult"
	default:
		return "very difficult"
	}
}

// estimateSyllables counts vowel groups, discounting a silent trailing
// "e"; every word has at least one syllable
func estimateSyllables(word string) int {
	w := strings.ToLower(word)
	count := len(vowelGroupPattern.FindAllString(w, -1))

	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
