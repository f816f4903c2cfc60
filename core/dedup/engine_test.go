package dedup

import (
	"testing"

	"search-results-api/core/domain"
)

func TestDeduplicate_URLExactMatch(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "A", URL: "https://example.com/x"},
		{Title: "B", URL: "http://www.example.com/x/"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 1 {
		t.Fatalf("expected 1 kept record, got %d", len(out.Results))
	}
	if out.DuplicatesRemoved != 1 {
		t.Errorf("expected 1 removed, got %d", out.DuplicatesRemoved)
	}
	if out.Results[0].Title != "A" {
		t.Errorf("earliest record should be kept, got %q", out.Results[0].Title)
	}
	if len(out.DuplicateGroups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d", len(out.DuplicateGroups))
	}
	match := out.DuplicateGroups[0].Duplicates[0]
	if match.Reason != domain.MatchReasonURL {
		t.Errorf("expected url_match, got %s", match.Reason)
	}
	if match.Similarity != 1.0 {
		t.Errorf("url matches are defined as similarity 1.0, got %v", match.Similarity)
	}
}

func TestDeduplicate_SameTitleOnSameEffectiveDomain(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "Same Title", URL: "https://site1.com/a"},
		{Title: "Same Title", URL: "https://www.site1.com/b"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 1 {
		t.Fatalf("expected 1 kept record, got %d", len(out.Results))
	}
	if out.DuplicateGroups[0].Duplicates[0].Reason != domain.MatchReasonTitleSimilarity {
		t.Errorf("expected title_similarity, got %s", out.DuplicateGroups[0].Duplicates[0].Reason)
	}
}

func TestDeduplicate_SameTitleAcrossDomainsIsNotADuplicate(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "Same Title", URL: "https://site1.com/a"},
		{Title: "Same Title", URL: "https://site2.com/a"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 2 {
		t.Fatalf("cross-domain title matching is disallowed, got %d results", len(out.Results))
	}
	if out.DuplicatesRemoved != 0 {
		t.Errorf("expected 0 removed, got %d", out.DuplicatesRemoved)
	}
}

func TestDeduplicate_ThresholdSeparatesNearDuplicateTitles(t *testing.T) {
	records := []domain.SearchResult{
		{Title: "The Quick Brown Fox Jumps Over", URL: "https://site1.com/xxxxxxxxxx"},
		{Title: "The Quick Brown Fox Jumped Over", URL: "https://site1.com/yyyyyyyyyy"},
	}

	loose := DefaultOptions()
	loose.Threshold = 0.5
	out := NewEngine(loose, nil).Deduplicate(records, nil)
	if len(out.Results) != 1 {
		t.Errorf("threshold 0.5 should treat the pair as duplicates, got %d results", len(out.Results))
	}

	strict := DefaultOptions()
	out = NewEngine(strict, nil).Deduplicate(records, nil)
	if len(out.Results) != 2 {
		t.Errorf("default threshold 0.8 should keep both, got %d results", len(out.Results))
	}
}

func TestDeduplicate_ThresholdMonotonicity(t *testing.T) {
	records := []domain.SearchResult{
		{Title: "Climate Change Report Published Today", URL: "https://site1.com/aaaa"},
		{Title: "Climate Change Report Published", URL: "https://site1.com/bbbb"},
		{Title: "Climate Change Update", URL: "https://site1.com/cccc"},
		{Title: "Unrelated Sports News", URL: "https://site1.com/dddd"},
	}

	prevRemoved := -1
	for _, threshold := range []float64{0.95, 0.8, 0.6, 0.4, 0.2, 0.05} {
		opts := DefaultOptions()
		opts.Threshold = threshold

		out := NewEngine(opts, nil).Deduplicate(records, nil)
		if out.DuplicatesRemoved < prevRemoved {
			t.Fatalf("lowering threshold to %v decreased duplicates from %d to %d",
				threshold, prevRemoved, out.DuplicatesRemoved)
		}
		prevRemoved = out.DuplicatesRemoved
	}
}

func TestDeduplicate_CountConservation(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "A", URL: "https://example.com/1"},
		{Title: "A", URL: "https://example.com/1?utm=x"},
		{Title: "B", URL: "https://example.com/2"},
		{Title: "C", URL: "not a parseable url"},
		{Title: "B", URL: "https://www.example.com/2/"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results)+out.DuplicatesRemoved != len(records) {
		t.Errorf("count conservation violated: %d kept + %d removed != %d input",
			len(out.Results), out.DuplicatesRemoved, len(records))
	}
}

func TestDeduplicate_DisabledURLMatchingSkipsExactCheck(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableURLNormalization = false

	engine := NewEngine(opts, nil)
	records := []domain.SearchResult{
		{Title: "Alpha Beta", URL: "https://example.com/x"},
		{Title: "Gamma Delta", URL: "https://example.com/x"},
	}

	out := engine.Deduplicate(records, nil)

	// Identical URLs alone no longer match; composite similarity with
	// disjoint titles stays below the default threshold
	if len(out.Results) != 2 {
		t.Errorf("expected 2 results with URL matching disabled, got %d", len(out.Results))
	}
}

func TestDeduplicate_MalformedURLNeverMatchesOnDomain(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "Same Title", URL: "https://site1.com/a"},
		{Title: "Same Title", URL: "::: broken :::"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 2 {
		t.Errorf("record without a hostname cannot title-match, got %d results", len(out.Results))
	}
}

func TestDeduplicate_LogsCaptureDecisions(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableLogging = true

	engine := NewEngine(opts, nil)
	records := []domain.SearchResult{
		{Title: "A", URL: "https://example.com/x"},
		{Title: "B", URL: "https://example.com/x"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(out.Logs))
	}
	entry := out.Logs[0]
	if entry.Reason != domain.MatchReasonURL {
		t.Errorf("expected url_match, got %s", entry.Reason)
	}
	if entry.NormalizedOriginalURL != "example.com/x" || entry.NormalizedDuplicateURL != "example.com/x" {
		t.Errorf("expected normalized URLs recorded, got %+v", entry)
	}
}

func TestDeduplicate_NoLogsWhenDisabled(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)
	records := []domain.SearchResult{
		{Title: "A", URL: "https://example.com/x"},
		{Title: "B", URL: "https://example.com/x"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Logs) != 0 {
		t.Errorf("expected no logs when logging is disabled, got %d", len(out.Logs))
	}
}

func TestDeduplicate_OverridesDoNotMutateEngineOptions(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)

	merge := true
	strategy := StrategyComprehensive
	records := []domain.SearchResult{
		{Title: "A", URL: "https://example.com/x", Snippet: "first", Provider: "brave"},
		{Title: "B", URL: "https://example.com/x", Snippet: "second", Provider: "mojeek"},
	}

	out := engine.Deduplicate(records, &Overrides{ShouldMerge: &merge, MergeStrategy: &strategy})

	if out.Results[0].Snippet != "first | second" {
		t.Errorf("override should enable comprehensive merge, got %q", out.Results[0].Snippet)
	}

	after := engine.Options()
	if after.EnableMerging || after.MergeStrategy != StrategyConservative {
		t.Errorf("per-call overrides leaked into engine options: %+v", after)
	}
}

func TestDeduplicate_MergedRecordInheritsOriginalPosition(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableMerging = true
	opts.MergeStrategy = StrategyComprehensive

	engine := NewEngine(opts, nil)
	records := []domain.SearchResult{
		{Title: "First", URL: "https://example.com/1", Snippet: "one"},
		{Title: "Other", URL: "https://other.com/z", Snippet: "zzz"},
		{Title: "Second", URL: "https://example.com/1", Snippet: "two"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
	if out.Results[0].Snippet != "one | two" {
		t.Errorf("merged record should keep position 0, got %q", out.Results[0].Snippet)
	}
	if out.DuplicateGroups[0].Original.Snippet != "one | two" {
		t.Errorf("group original should be the merged record, got %q", out.DuplicateGroups[0].Original.Snippet)
	}
}

func TestDeduplicate_FirstMatchWinsInKeptOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 0.5

	engine := NewEngine(opts, nil)
	records := []domain.SearchResult{
		{Title: "Quarterly Earnings Report Released", URL: "https://site1.com/aaaa"},
		{Title: "Quarterly Earnings Report Released Now", URL: "https://site1.com/aaab"},
		{Title: "Quarterly Earnings Report Released", URL: "https://site1.com/aaac"},
	}

	out := engine.Deduplicate(records, nil)

	if len(out.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out.Results))
	}
	// Both later arrivals fold into the earliest kept record
	if len(out.DuplicateGroups) != 1 || len(out.DuplicateGroups[0].Duplicates) != 2 {
		t.Errorf("expected a single group with 2 duplicates, got %+v", out.DuplicateGroups)
	}
}
