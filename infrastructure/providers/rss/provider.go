// ABOUTME: Search provider over a fixed set of RSS/Atom feeds using gofeed
// ABOUTME: Matches query keywords against item titles and descriptions

package rss

import (
	"context"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"

	"search-results-api/core/domain"
	coreerrors "search-results-api/core/errors"
	"search-results-api/core/interfaces"
	"search-results-api/pkg/utils/html"
	timeutils "search-results-api/pkg/utils/time"
)

// Provider implements the SearchProvider interface over configured feeds.
// Feeds are fetched on every search; callers wanting caching wrap the
// aggregation layer, not the provider.
type Provider struct {
	feedURLs []string
	parser   *gofeed.Parser
	logger   interfaces.Logger
}

// NewProvider creates the provider with the feed URLs to search
func NewProvider(feedURLs []string, logger interfaces.Logger) *Provider {
	return &Provider{
		feedURLs: feedURLs,
		parser:   gofeed.NewParser(),
		logger:   logger,
	}
}

// Name implements SearchProvider
func (p *Provider) Name() string { return "rss" }

// Search fetches every configured feed concurrently and returns items
// whose title or description mentions a query term
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, &coreerrors.ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if len(p.feedURLs) == 0 {
		return nil, nil
	}

	terms := strings.Fields(strings.ToLower(query))

	var mu sync.Mutex
	var results []domain.SearchResult
	var wg sync.WaitGroup

	for _, feedURL := range p.feedURLs {
		wg.Add(1)
		go func(feedURL string) {
			defer wg.Done()

			feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
			if err != nil {
				if p.logger != nil {
					p.logger.Warn("Failed to fetch feed", map[string]interface{}{
						"feed":  feedURL,
						"error": err.Error(),
					})
				}
				return
			}

			matched := p.matchItems(feed, terms)
			mu.Lock()
			results = append(results, matched...)
			mu.Unlock()
		}(feedURL)
	}
	wg.Wait()

	// Ranks are assigned after the merge so they stay contiguous
	for i := range results {
		results[i].Rank = i + 1
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// matchItems filters one feed's items against the query terms
func (p *Provider) matchItems(feed *gofeed.Feed, terms []string) []domain.SearchResult {
	var out []domain.SearchResult
	for _, item := range feed.Items {
		if item == nil || item.Link == "" || item.Title == "" {
			continue
		}

		snippet := html.StripTags(item.Description)
		haystack := strings.ToLower(item.Title + " " + snippet)
		if !matchesAny(haystack, terms) {
			continue
		}

		record := domain.SearchResult{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  snippet,
			Provider: p.Name(),
		}
		if item.PublishedParsed != nil {
			record.Timestamp = *item.PublishedParsed
		} else if item.Published != "" {
			// gofeed leaves nonstandard date formats unparsed
			record.Timestamp = timeutils.ParseFlexibleTime(item.Published)
		}
		out = append(out, record)
	}
	return out
}

// matchesAny reports whether any term occurs in the haystack
func matchesAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
