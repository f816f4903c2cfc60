// ABOUTME: Tests for the enrichment pipeline
// ABOUTME: Covers ordering, failure isolation, timeouts, batch dispatch and registry management

package enrichment

import (
	"context"
	"testing"
	"time"

	"search-results-api/core/domain"
)

func TestPipeline_RunsModulesInOrder(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("first"))
	p.Register(tagModule("second"))
	p.Register(tagModule("third"))

	out, _ := p.Process(context.Background(), []domain.SearchResult{sampleRecord("A", "https://a.com")})

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	trace, _ := out[0].Metadata.Extra["trace"].([]string)
	if len(trace) != 3 || trace[0] != "first" || trace[1] != "second" || trace[2] != "third" {
		t.Errorf("unexpected execution trace: %v", trace)
	}
}

func TestPipeline_SkipsDisabledModules(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	enabled := tagModule("enabled")
	disabled := tagModule("disabled")
	disabled.enabled = false
	p.Register(enabled)
	p.Register(disabled)

	out, _ := p.Process(context.Background(), []domain.SearchResult{sampleRecord("A", "https://a.com")})

	trace, _ := out[0].Metadata.Extra["trace"].([]string)
	if len(trace) != 1 || trace[0] != "enabled" {
		t.Errorf("expected only enabled module to run, trace = %v", trace)
	}
	if disabled.callCount() != 0 {
		t.Errorf("disabled module was called %d times", disabled.callCount())
	}
}

func TestPipeline_FailingModulePassesRecordThrough(t *testing.T) {
	logger := &mockLogger{}
	p := NewPipeline(DefaultConfig(), logger)
	p.Register(failingModule("broken"))
	p.Register(tagModule("after"))

	in := sampleRecord("A", "https://a.com")
	out, _ := p.Process(context.Background(), []domain.SearchResult{in})

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Title != in.Title || out[0].URL != in.URL {
		t.Errorf("record was not passed through intact")
	}
	// Downstream module still ran on the passed-through record
	trace, _ := out[0].Metadata.Extra["trace"].([]string)
	if len(trace) != 1 || trace[0] != "after" {
		t.Errorf("downstream module did not run, trace = %v", trace)
	}
	if logger.warnCount() == 0 {
		t.Error("expected a warning for the failing module")
	}
}

func TestPipeline_PanickingModuleIsIsolated(t *testing.T) {
	p := NewPipeline(DefaultConfig(), &mockLogger{})
	p.Register(panickingModule("explosive"))

	in := sampleRecord("A", "https://a.com")
	out, _ := p.Process(context.Background(), []domain.SearchResult{in})

	if len(out) != 1 || out[0].URL != in.URL {
		t.Errorf("panic was not contained, got %d records", len(out))
	}
}

func TestPipeline_TimeoutKeepsOriginalRecord(t *testing.T) {
	config := DefaultConfig()
	config.Timeout = 20 * time.Millisecond
	p := NewPipeline(config, &mockLogger{})

	slow := tagModule("slow")
	slow.delay = 200 * time.Millisecond
	p.Register(slow)

	in := sampleRecord("A", "https://a.com")
	out, _ := p.Process(context.Background(), []domain.SearchResult{in})

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if _, tagged := out[0].Metadata.Extra["trace"]; tagged {
		t.Error("timed-out module's result should have been discarded")
	}
}

func TestPipeline_PrefersBatchProcessor(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)

	batch := &fakeBatchModule{fakeModule: fakeModule{name: "batch", enabled: true}}
	batch.batchFn = func(records []domain.SearchResult) ([]domain.SearchResult, error) {
		// Batch modules may shrink the batch
		return records[:1], nil
	}
	p.Register(batch)

	in := []domain.SearchResult{
		sampleRecord("A", "https://a.com"),
		sampleRecord("B", "https://b.com"),
	}
	out, _ := p.Process(context.Background(), in)

	if len(out) != 1 {
		t.Errorf("expected batch path to shrink output to 1, got %d", len(out))
	}
}

func TestPipeline_BatchFailurePassesAllRecordsThrough(t *testing.T) {
	logger := &mockLogger{}
	p := NewPipeline(DefaultConfig(), logger)

	batch := &fakeBatchModule{fakeModule: fakeModule{name: "batch", enabled: true}}
	batch.batchFn = func([]domain.SearchResult) ([]domain.SearchResult, error) {
		return nil, errFakeModule
	}
	p.Register(batch)

	in := []domain.SearchResult{
		sampleRecord("A", "https://a.com"),
		sampleRecord("B", "https://b.com"),
	}
	out, _ := p.Process(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("expected 2 records passed through, got %d", len(out))
	}
	if logger.warnCount() == 0 {
		t.Error("expected a warning for the failing batch module")
	}
}

func TestPipeline_ParallelProcessingPreservesOrder(t *testing.T) {
	config := DefaultConfig()
	config.ParallelProcessing = true
	config.MaxConcurrent = 3
	p := NewPipeline(config, nil)
	p.Register(tagModule("tagger"))

	var in []domain.SearchResult
	titles := []string{"A", "B", "C", "D", "E", "F", "G"}
	for _, title := range titles {
		in = append(in, sampleRecord(title, "https://"+title+".com"))
	}

	out, _ := p.Process(context.Background(), in)

	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i, record := range out {
		if record.Title != titles[i] {
			t.Errorf("record %d: expected title %s, got %s", i, titles[i], record.Title)
		}
	}
}

func TestPipeline_MetricsOnlyWhenEnabled(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("tagger"))

	_, metrics := p.Process(context.Background(), []domain.SearchResult{sampleRecord("A", "https://a.com")})
	if metrics != nil {
		t.Errorf("expected no metrics by default, got %v", metrics)
	}

	config := p.Config()
	config.MeasurePerformance = true
	p.UpdateConfig(config)

	_, metrics = p.Process(context.Background(), []domain.SearchResult{sampleRecord("A", "https://a.com")})
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric entry, got %d", len(metrics))
	}
	if metrics[0].Module != "tagger" || metrics[0].ItemsProcessed != 1 {
		t.Errorf("unexpected metrics: %+v", metrics[0])
	}
}

func TestPipeline_RegisterAtAndReorder(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("a"))
	p.Register(tagModule("c"))
	p.RegisterAt(tagModule("b"), 1)

	order := p.ModuleOrder()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected order after RegisterAt: %v", order)
	}

	if err := p.Reorder([]string{"c", "b", "a"}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	order = p.ModuleOrder()
	if order[0] != "c" || order[2] != "a" {
		t.Errorf("unexpected order after Reorder: %v", order)
	}

	if err := p.Reorder([]string{"c", "b"}); err == nil {
		t.Error("expected error for incomplete order")
	}
	if err := p.Reorder([]string{"c", "b", "b"}); err == nil {
		t.Error("expected error for duplicate names")
	}
	if err := p.Reorder([]string{"c", "b", "x"}); err == nil {
		t.Error("expected error for unknown module")
	}
}

func TestPipeline_ReRegisterReplacesInPlace(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("a"))
	p.Register(newFakeModule("b", nil))
	p.Register(tagModule("c"))

	replacement := failingModule("b")
	p.Register(replacement)

	order := p.ModuleOrder()
	if len(order) != 3 || order[1] != "b" {
		t.Fatalf("re-register changed order: %v", order)
	}
	got, ok := p.Get("b")
	if !ok || got != Module(replacement) {
		t.Error("re-register did not replace the module")
	}
}

func TestPipeline_Remove(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("a"))

	if !p.Remove("a") {
		t.Error("expected Remove to report true for a registered module")
	}
	if p.Remove("a") {
		t.Error("expected Remove to report false for a missing module")
	}
	if len(p.ModuleOrder()) != 0 {
		t.Errorf("order not emptied: %v", p.ModuleOrder())
	}
}

func TestPipeline_EmptyBatch(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	p.Register(tagModule("a"))

	out, _ := p.Process(context.Background(), nil)
	if len(out) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(out))
	}
}
