// ABOUTME: Content-type module - file type, category, date, language and organization detection
// ABOUTME: All signals come from URL and snippet pattern scoring, no network access

package enrichment

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"search-results-api/core/domain"
)

// ContentTypeConfig controls the content-type module
type ContentTypeConfig struct {
	Enabled bool

	// DetectLanguage toggles stop-word based language detection
	DetectLanguage bool

	// ExtractDates toggles publication date extraction from snippets
	ExtractDates bool
}

// DefaultContentTypeConfig returns the module defaults
func DefaultContentTypeConfig() ContentTypeConfig {
	return ContentTypeConfig{
		Enabled:        true,
		DetectLanguage: true,
		ExtractDates:   true,
	}
}

// fileTypeByExtension maps URL path extensions to file types.
// Extensionless paths default to html.
var fileTypeByExtension = map[string]string{
	".pdf":  "pdf",
	".doc":  "document",
	".docx": "document",
	".odt":  "document",
	".ppt":  "presentation",
	".pptx": "presentation",
	".xls":  "spreadsheet",
	".xlsx": "spreadsheet",
	".csv":  "csv",
	".txt":  "text",
	".xml":  "xml",
	".json": "json",
	".html": "html",
	".htm":  "html",
	".php":  "html",
	".asp":  "html",
	".aspx": "html",
	".jsp":  "html",
}

// categoryPatterns maps a content category to the regexes scored against
// the URL and snippet. Confidence is hits / patterns.
var categoryPatterns = map[string][]*regexp.Regexp{
	"research_paper": {
		regexp.MustCompile(`(?i)\babstract\b`),
		regexp.MustCompile(`(?i)\bmethodolog`),
		regexp.MustCompile(`(?i)\bpeer.review`),
		regexp.MustCompile(`(?i)\bdoi\.org\b`),
		regexp.MustCompile(`(?i)arxiv|pubmed|jstor`),
		regexp.MustCompile(`(?i)\bjournal\b`),
	},
	"clinical_guideline": {
		regexp.MustCompile(`(?i)\bguideline`),
		regexp.MustCompile(`(?i)\bclinical\b`),
		regexp.MustCompile(`(?i)\brecommendation`),
		regexp.MustCompile(`(?i)\bpatient`),
		regexp.MustCompile(`(?i)\btreatment\b`),
	},
	"government_report": {
		regexp.MustCompile(`(?i)\.gov\b`),
		regexp.MustCompile(`(?i)\bministry\b`),
		regexp.MustCompile(`(?i)\bfederal\b`),
		regexp.MustCompile(`(?i)\bofficial report\b`),
		regexp.MustCompile(`(?i)\bpolicy\b`),
	},
	"case_study": {
		regexp.MustCompile(`(?i)\bcase stud`),
		regexp.MustCompile(`(?i)\bfindings\b`),
		regexp.MustCompile(`(?i)\bwe examined\b`),
	},
	"news_article": {
		regexp.MustCompile(`(?i)\bbreaking\b`),
		regexp.MustCompile(`(?i)\breported\b`),
		regexp.MustCompile(`(?i)/news/`),
		regexp.MustCompile(`(?i)\breuters|associated press|correspondent\b`),
	},
	"blog_post": {
		regexp.MustCompile(`(?i)/blog/`),
		regexp.MustCompile(`(?i)\bposted by\b`),
		regexp.MustCompile(`(?i)\bread more\b`),
		regexp.MustCompile(`(?i)medium\.com|wordpress|blogspot`),
	},
}

// datePattern couples an extraction regex with a parse layout and the
// confidence assigned to a hit. Patterns are tried in order.
type datePattern struct {
	re         *regexp.Regexp
	layouts    []string
	confidence float64
}

var datePatterns = []datePattern{
	{
		re:         regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		layouts:    []string{"2006-01-02"},
		confidence: 0.9,
	},
	{
		re:         regexp.MustCompile(`\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})\b`),
		layouts:    []string{"January 2, 2006", "January 2 2006"},
		confidence: 0.8,
	},
	{
		re:         regexp.MustCompile(`\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4})\b`),
		layouts:    []string{"Jan 2, 2006", "Jan 2 2006"},
		confidence: 0.7,
	},
	{
		re:         regexp.MustCompile(`(?i)published\s+on\s+(\d{2}/\d{2}/\d{4})`),
		layouts:    []string{"02/01/2006"},
		confidence: 0.75,
	},
	{
		re:         regexp.MustCompile(`\b((?:19|20)\d{2})\b`),
		layouts:    []string{"2006"},
		confidence: 0.3,
	},
}

// academicURLIndicators and academicTextIndicators feed the academic
// flag: two or more hits across both lists marks the result academic.
var academicURLIndicators = []string{
	".edu", "arxiv", "doi.org", "scholar.", "pubmed", "jstor", "researchgate", "/paper",
}

var academicTextIndicators = []string{
	"study", "research", "journal", "peer-reviewed", "abstract", "citation", "university", "et al",
}

// organizationPatterns scores organization type from URL and snippet
var organizationPatterns = map[string][]*regexp.Regexp{
	"academic": {
		regexp.MustCompile(`(?i)\.edu\b`),
		regexp.MustCompile(`(?i)\buniversity|college|institute\b`),
		regexp.MustCompile(`(?i)\bfaculty\b`),
	},
	"government": {
		regexp.MustCompile(`(?i)\.gov\b|\.gouv\b`),
		regexp.MustCompile(`(?i)\bministry|department of\b`),
		regexp.MustCompile(`(?i)\bfederal|municipal\b`),
	},
	"healthcare": {
		regexp.MustCompile(`(?i)\bhospital|clinic|health\b`),
		regexp.MustCompile(`(?i)\.nhs\.|mayoclinic|webmd`),
		regexp.MustCompile(`(?i)\bmedical center\b`),
	},
	"commercial": {
		regexp.MustCompile(`(?i)\bshop|store|buy now|pricing\b`),
		regexp.MustCompile(`(?i)\bproduct|checkout\b`),
	},
	"nonprofit": {
		regexp.MustCompile(`(?i)\bfoundation|charity|nonprofit|non-profit\b`),
		regexp.MustCompile(`(?i)\bdonate\b`),
	},
	"news": {
		regexp.MustCompile(`(?i)\bnews|times|herald|tribune|post\b`),
		regexp.MustCompile(`(?i)reuters|bbc\.|cnn\.|apnews`),
	},
	"blog": {
		regexp.MustCompile(`(?i)/blog/|\bblog\b`),
		regexp.MustCompile(`(?i)medium\.com|substack|wordpress`),
	},
}

// languageStopWords is the fixed language set for crude stop-word
// frequency detection
var languageStopWords = map[string][]string{
	"en": {"the", "and", "of", "to", "in", "is", "that", "for", "with", "was"},
	"es": {"el", "la", "de", "que", "y", "en", "los", "del", "las", "por"},
	"fr": {"le", "la", "les", "de", "et", "des", "est", "dans", "pour", "une"},
	"de": {"der", "die", "und", "das", "von", "mit", "ist", "den", "nicht", "ein"},
	"it": {"il", "di", "che", "la", "per", "una", "sono", "con", "del", "nel"},
}

// ContentTypeModule derives file type, category, dates, language and
// organization signals from a result's URL and snippet
type ContentTypeModule struct {
	mu     sync.RWMutex
	config ContentTypeConfig
}

// NewContentTypeModule creates the module with the given config
func NewContentTypeModule(config ContentTypeConfig) *ContentTypeModule {
	return &ContentTypeModule{config: config}
}

// Name implements Module
func (m *ContentTypeModule) Name() string { return "content_type" }

// Enabled implements Module
func (m *ContentTypeModule) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Enabled
}

// Config returns the module configuration
func (m *ContentTypeModule) Config() ContentTypeConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// UpdateConfig replaces the module configuration
func (m *ContentTypeModule) UpdateConfig(config ContentTypeConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// Process attaches content-type metadata to the record
func (m *ContentTypeModule) Process(_ context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	config := m.Config()
	haystack := record.URL + " " + record.Snippet

	meta := &domain.ContentTypeMetadata{
		FileType: detectFileType(record.URL),
	}

	meta.Category, meta.CategoryConfidence = scorePatterns(categoryPatterns, haystack, "news_article", 0.1)
	meta.Organization, meta.OrganizationConfidence = scorePatterns(organizationPatterns, haystack, "unknown", 0.1)

	meta.Academic, meta.AcademicSignals = detectAcademic(record.URL, record.Snippet)

	if config.ExtractDates {
		if parsed, raw, confidence, ok := extractDate(record.Snippet); ok {
			meta.PublishedDate = &parsed
			meta.DateRaw = raw
			meta.DateConfidence = confidence
		}
	}

	if config.DetectLanguage {
		meta.Language, meta.LanguageConfidence = detectLanguage(record.Snippet)
	}

	out := record.Clone()
	out.Metadata.ContentType = meta
	return out, nil
}

// detectFileType maps the URL path extension to a file type,
// defaulting to html
func detectFileType(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "html"
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return "html"
	}
	if t, ok := fileTypeByExtension[ext]; ok {
		return t
	}
	return "html"
}

// scorePatterns picks the key with the highest normalized pattern-hit
// confidence, falling back to fallbackKey at fallbackConfidence when
// nothing matches
func scorePatterns(patterns map[string][]*regexp.Regexp, haystack, fallbackKey string, fallbackConfidence float64) (string, float64) {
	best := ""
	bestScore := 0.0

	for key, regexes := range patterns {
		hits := 0
		for _, re := range regexes {
			if re.MatchString(haystack) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) / float64(len(regexes))
		if score > bestScore || (score == bestScore && key < best) {
			best = key
			bestScore = score
		}
	}

	if best == "" {
		return fallbackKey, fallbackConfidence
	}
	return best, bestScore
}

// detectAcademic counts indicator hits across the URL and snippet lists;
// two or more hits flags the result as academic
func detectAcademic(rawURL, snippet string) (bool, int) {
	lowURL := strings.ToLower(rawURL)
	lowText := strings.ToLower(snippet)

	hits := 0
	for _, indicator := range academicURLIndicators {
		if strings.Contains(lowURL, indicator) {
			hits++
		}
	}
	for _, indicator := range academicTextIndicators {
		if strings.Contains(lowText, indicator) {
			hits++
		}
	}

	return hits >= 2, hits
}

// extractDate tries each date pattern in order and returns the first
// parseable hit with its confidence
func extractDate(text string) (time.Time, string, float64, bool) {
	for _, dp := range datePatterns {
		match := dp.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		raw := match[1]
		for _, layout := range dp.layouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, raw, dp.confidence, true
			}
		}
	}
	return time.Time{}, "", 0, false
}

// detectLanguage does crude stop-word frequency matching over a small
// fixed language set
func detectLanguage(text string) (string, float64) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return "unknown", 0
	}

	tokenSet := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tokenSet[strings.Trim(t, ".,!?;:'\"()")]++
	}

	best := "unknown"
	bestHits := 0
	totalHits := 0
	for lang, stopWords := range languageStopWords {
		hits := 0
		for _, sw := range stopWords {
			hits += tokenSet[sw]
		}
		totalHits += hits
		if hits > bestHits || (hits == bestHits && hits > 0 && lang < best) {
			best = lang
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return "unknown", 0
	}
	return best, float64(bestHits) / float64(totalHits)
}
