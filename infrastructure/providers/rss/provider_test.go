// ABOUTME: Tests for the RSS feed search provider
// ABOUTME: Covers keyword matching, HTML stripping and failed feed degradation

package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Understanding Go Channels</title>
      <link>https://example.com/go-channels</link>
      <description>&lt;p&gt;A deep dive into &lt;b&gt;channel&lt;/b&gt; semantics.&lt;/p&gt;</description>
      <pubDate>Fri, 15 Mar 2024 10:30:00 +0000</pubDate>
    </item>
    <item>
      <title>Cooking with Cast Iron</title>
      <link>https://example.com/cast-iron</link>
      <description>Recipes and seasoning tips.</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearch_MatchesQueryTerms(t *testing.T) {
	server := newFeedServer(t)
	p := NewProvider([]string{server.URL}, nil)

	results, err := p.Search(context.Background(), "channels", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	if results[0].Title != "Understanding Go Channels" {
		t.Errorf("matched wrong item: %s", results[0].Title)
	}
	if results[0].Provider != "rss" {
		t.Errorf("provider = %s, want rss", results[0].Provider)
	}
	if results[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", results[0].Rank)
	}
	if results[0].Timestamp.IsZero() {
		t.Error("pubDate should populate the timestamp")
	}
}

func TestSearch_StripsHTMLFromSnippets(t *testing.T) {
	server := newFeedServer(t)
	p := NewProvider([]string{server.URL}, nil)

	results, err := p.Search(context.Background(), "semantics", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	if want := "A deep dive into channel semantics."; results[0].Snippet != want {
		t.Errorf("snippet = %q, want %q", results[0].Snippet, want)
	}
}

func TestSearch_MatchesDescriptionTerms(t *testing.T) {
	server := newFeedServer(t)
	p := NewProvider([]string{server.URL}, nil)

	results, err := p.Search(context.Background(), "seasoning", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Cooking with Cast Iron" {
		t.Errorf("description terms should match, got %v", results)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	server := newFeedServer(t)
	p := NewProvider([]string{server.URL}, nil)

	results, err := p.Search(context.Background(), "quantum entanglement", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches, got %d", len(results))
	}
}

func TestSearch_FailedFeedDegrades(t *testing.T) {
	server := newFeedServer(t)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	p := NewProvider([]string{broken.URL, server.URL}, nil)

	results, err := p.Search(context.Background(), "channels", 0)
	if err != nil {
		t.Fatalf("Search should tolerate failed feeds: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("healthy feed should still match, got %d results", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	p := NewProvider([]string{"https://example.com/feed"}, nil)

	if _, err := p.Search(context.Background(), "", 0); err == nil {
		t.Error("expected validation error for empty query")
	}
}

func TestSearch_NoFeedsConfigured(t *testing.T) {
	p := NewProvider(nil, nil)

	results, err := p.Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results with no feeds, got %v", results)
	}
}

func TestSearch_HonorsLimit(t *testing.T) {
	server := newFeedServer(t)
	p := NewProvider([]string{server.URL}, nil)

	// Both items match "in" as a substring
	results, err := p.Search(context.Background(), "in", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("limit should cap results at 1, got %d", len(results))
	}
}
