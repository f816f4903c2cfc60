// ABOUTME: Search provider backed by a JSON search API over HTTP
// ABOUTME: Normalizes API responses into canonical result records with ranks stamped

package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"search-results-api/core/domain"
	coreerrors "search-results-api/core/errors"
	"search-results-api/core/interfaces"
	timeutils "search-results-api/pkg/utils/time"
)

// Config holds the API endpoint and credentials
type Config struct {
	// Name identifies this provider instance ("searchapi" when empty)
	Name string

	// BaseURL is the search endpoint; the query is appended as ?q=
	BaseURL string

	// APIKey is sent as a query parameter when non-empty
	APIKey string
}

// Provider implements the SearchProvider interface over a JSON HTTP API
type Provider struct {
	config Config
	client interfaces.HTTPClient
	logger interfaces.Logger
}

// NewProvider creates the provider. The HTTP client is required.
func NewProvider(config Config, client interfaces.HTTPClient, logger interfaces.Logger) *Provider {
	if config.Name == "" {
		config.Name = "searchapi"
	}
	return &Provider{config: config, client: client, logger: logger}
}

// Name implements SearchProvider
func (p *Provider) Name() string { return p.config.Name }

// apiResult is the wire shape of one result
type apiResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	PublishedAt string `json:"publishedAt"`
}

// Search runs the query against the API and normalizes the response
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, &coreerrors.ValidationError{Field: "query", Message: "cannot be empty"}
	}

	endpoint, err := p.buildURL(query, limit)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Get(ctx, endpoint)
	if err != nil {
		return nil, &coreerrors.ProviderError{Provider: p.Name(), Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "search request failed",
			API:        p.Name(),
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to read response")
	}

	var apiResponse struct {
		Results []apiResult `json:"results"`
	}
	if err := json.Unmarshal(bodyBytes, &apiResponse); err != nil {
		return nil, coreerrors.WrapError(err, "failed to parse search results")
	}

	results := make([]domain.SearchResult, 0, len(apiResponse.Results))
	for i, r := range apiResponse.Results {
		record := domain.SearchResult{
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  r.Snippet,
			Provider: p.Name(),
			Rank:     i + 1,
		}
		// APIs disagree on timestamp formats; take whatever parses
		if t := timeutils.ParseFlexibleTime(r.PublishedAt); !t.IsZero() {
			record.Timestamp = t
		}
		if !record.IsValid() {
			continue
		}
		results = append(results, record)
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	if p.logger != nil {
		p.logger.Debug("Search API returned results", map[string]interface{}{
			"provider": p.Name(),
			"query":    query,
			"count":    len(results),
		})
	}

	return results, nil
}

// buildURL assembles the endpoint with query, limit and key parameters
func (p *Provider) buildURL(query string, limit int) (string, error) {
	u, err := url.Parse(p.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if p.config.APIKey != "" {
		q.Set("api_key", p.config.APIKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
