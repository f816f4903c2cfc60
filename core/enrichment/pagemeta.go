// ABOUTME: Page metadata module - scrapes Open Graph tags and an excerpt from result pages
// ABOUTME: Network-bound and disabled by default; results are cached per URL

package enrichment

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"search-results-api/core/domain"
	"search-results-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	readability "github.com/go-shiori/go-readability"
)

const (
	pageMetaUserAgent = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	pageMetaCacheTTL  = 24 * time.Hour
	pageMetaMaxBody   = 5 * 1024 * 1024
)

// PageMetaConfig controls the page metadata module
type PageMetaConfig struct {
	Enabled bool

	// FetchExcerpt additionally runs article extraction for a text excerpt
	FetchExcerpt bool

	// RequestTimeout bounds each page fetch
	RequestTimeout time.Duration
}

// DefaultPageMetaConfig returns the module defaults. The module is off
// by default: it issues a network request per record.
func DefaultPageMetaConfig() PageMetaConfig {
	return PageMetaConfig{
		Enabled:        false,
		FetchExcerpt:   false,
		RequestTimeout: 10 * time.Second,
	}
}

// PageMetaModule enriches results with metadata scraped from the page
// the URL points at
type PageMetaModule struct {
	mu     sync.RWMutex
	config PageMetaConfig
	cache  interfaces.Cache
	logger interfaces.Logger
}

// NewPageMetaModule creates the module. Cache and logger may be nil.
func NewPageMetaModule(config PageMetaConfig, cache interfaces.Cache, logger interfaces.Logger) *PageMetaModule {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultPageMetaConfig().RequestTimeout
	}
	return &PageMetaModule{config: config, cache: cache, logger: logger}
}

// Name implements Module
func (m *PageMetaModule) Name() string { return "page_metadata" }

// Enabled implements Module
func (m *PageMetaModule) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Enabled
}

// Config returns the module configuration
func (m *PageMetaModule) Config() PageMetaConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// UpdateConfig replaces the module configuration
func (m *PageMetaModule) UpdateConfig(config PageMetaConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultPageMetaConfig().RequestTimeout
	}
	m.config = config
}

// Process fetches and attaches page metadata for the record's URL
func (m *PageMetaModule) Process(ctx context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	config := m.Config()

	page, err := m.lookup(ctx, config, record.URL)
	if err != nil {
		return record, err
	}

	out := record.Clone()
	out.Metadata.Page = page
	return out, nil
}

// lookup checks the cache, scrapes on a miss, and caches the outcome
func (m *PageMetaModule) lookup(ctx context.Context, config PageMetaConfig, targetURL string) (*domain.PageMetadata, error) {
	cacheKey := "pagemeta:" + targetURL

	if m.cache != nil {
		if data, err := m.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached domain.PageMetadata
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	page, err := m.scrape(config, targetURL)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = m.cache.Set(ctx, cacheKey, data, pageMetaCacheTTL)
		}
	}

	return page, nil
}

// scrape visits the page and pulls Open Graph tags with head fallbacks
func (m *PageMetaModule) scrape(config PageMetaConfig, targetURL string) (*domain.PageMetadata, error) {
	c := colly.NewCollector(
		colly.UserAgent(pageMetaUserAgent),
		colly.MaxBodySize(pageMetaMaxBody),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.RequestTimeout)

	page := &domain.PageMetadata{}

	c.OnHTML("meta", func(e *colly.HTMLElement) {
		content := e.Attr("content")
		if content == "" {
			return
		}

		if e.Attr("name") == "twitter:image" && page.Thumbnail == "" {
			page.Thumbnail = content
		}

		switch e.Attr("property") {
		case "og:title":
			if page.Title == "" {
				page.Title = content
			}
		case "og:description":
			if page.Description == "" {
				page.Description = content
			}
		case "og:image":
			page.Images = append(page.Images, content)
			if page.Thumbnail == "" {
				page.Thumbnail = content
			}
		}
	})

	// Fallback to regular head tags
	c.OnHTML("head", func(e *colly.HTMLElement) {
		if page.Title == "" {
			if title := e.DOM.Find("title").First().Text(); title != "" {
				page.Title = strings.TrimSpace(title)
			}
		}
		if page.Description == "" {
			e.DOM.Find("meta[name='description']").Each(func(_ int, s *goquery.Selection) {
				if content, exists := s.Attr("content"); exists && content != "" {
					page.Description = content
				}
			})
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if m.logger != nil {
			m.logger.Debug("Error visiting URL for page metadata", map[string]interface{}{
				"url":    targetURL,
				"error":  err.Error(),
				"status": r.StatusCode,
			})
		}
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, err
	}

	if config.FetchExcerpt {
		if article, err := readability.FromURL(targetURL, config.RequestTimeout); err == nil {
			page.Excerpt = article.Excerpt
			if page.Thumbnail == "" {
				page.Thumbnail = article.Image
			}
		}
	}

	return page, nil
}
