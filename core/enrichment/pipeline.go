// ABOUTME: Enrichment pipeline - runs modules strictly in order with failure isolation
// ABOUTME: Timeouts are advisory: a timed-out module keeps running but its result is discarded

package enrichment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"search-results-api/core/domain"
	"search-results-api/core/interfaces"
)

// Config holds pipeline-level processing options
type Config struct {
	// ParallelProcessing enables bounded-concurrency per-item fan-out
	// for modules without a batch operation
	ParallelProcessing bool

	// MaxConcurrent is the chunk size for parallel processing
	MaxConcurrent int

	// Timeout wraps every module invocation (per item or per batch)
	Timeout time.Duration

	// MeasurePerformance records per-module timing and throughput
	MeasurePerformance bool
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		ParallelProcessing: false,
		MaxConcurrent:      5,
		Timeout:            30 * time.Second,
		MeasurePerformance: false,
	}
}

// ModuleMetrics records one module's contribution to a run
type ModuleMetrics struct {
	Module         string  `json:"module"`
	DurationMs     float64 `json:"durationMs"`
	ItemsProcessed int     `json:"itemsProcessed"`
}

// Pipeline runs an ordered sequence of enrichment modules over a batch.
// Output of module i is the input of module i+1. Module failures never
// surface as errors: the affected records pass through unchanged.
type Pipeline struct {
	mu      sync.RWMutex
	order   []string
	modules map[string]Module
	config  Config
	logger  interfaces.Logger
}

// NewPipeline creates an empty pipeline
func NewPipeline(config Config, logger interfaces.Logger) *Pipeline {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Pipeline{
		order:   []string{},
		modules: make(map[string]Module),
		config:  config,
		logger:  logger,
	}
}

// Config returns the pipeline's processing options
func (p *Pipeline) Config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

// UpdateConfig replaces the pipeline's processing options
func (p *Pipeline) UpdateConfig(config Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	p.config = config
}

// Register adds a module at the end of the order. Registering an
// existing name replaces the module in place, preserving its position.
func (p *Pipeline) Register(module Module) {
	p.RegisterAt(module, -1)
}

// RegisterAt adds a module at the given position (-1 appends).
// Re-registering an existing name replaces it and, when a position is
// given, moves it there.
func (p *Pipeline) RegisterAt(module Module, position int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := module.Name()
	_, exists := p.modules[name]
	p.modules[name] = module

	if exists {
		if position < 0 {
			return
		}
		// Remove from current position before reinserting
		for i, id := range p.order {
			if id == name {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
	}

	if position < 0 || position >= len(p.order) {
		p.order = append(p.order, name)
		return
	}
	p.order = append(p.order[:position], append([]string{name}, p.order[position:]...)...)
}

// Remove unregisters a module by name
func (p *Pipeline) Remove(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.modules[name]; !ok {
		return false
	}
	delete(p.modules, name)
	for i, id := range p.order {
		if id == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a registered module by name
func (p *Pipeline) Get(name string) (Module, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.modules[name]
	return m, ok
}

// ModuleOrder returns a copy of the current execution order
func (p *Pipeline) ModuleOrder() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Reorder replaces the execution order. The new order must be a
// permutation of exactly the registered module names.
func (p *Pipeline) Reorder(order []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(order) != len(p.modules) {
		return fmt.Errorf("order has %d entries, %d modules registered", len(order), len(p.modules))
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := p.modules[name]; !ok {
			return fmt.Errorf("unknown module %q in order", name)
		}
		if seen[name] {
			return fmt.Errorf("module %q listed twice", name)
		}
		seen[name] = true
	}

	p.order = append([]string(nil), order...)
	return nil
}

// Process runs every enabled module in order over the batch and returns
// the final records plus per-module metrics (empty unless performance
// measurement is enabled).
func (p *Pipeline) Process(ctx context.Context, records []domain.SearchResult) ([]domain.SearchResult, []ModuleMetrics) {
	p.mu.RLock()
	order := append([]string(nil), p.order...)
	modules := make(map[string]Module, len(p.modules))
	for k, v := range p.modules {
		modules[k] = v
	}
	config := p.config
	p.mu.RUnlock()

	var metrics []ModuleMetrics

	for _, name := range order {
		module := modules[name]
		if module == nil || !module.Enabled() {
			continue
		}

		start := time.Now()
		var processed int
		records, processed = p.runModule(ctx, module, records, config)

		if config.MeasurePerformance {
			metrics = append(metrics, ModuleMetrics{
				Module:         name,
				DurationMs:     float64(time.Since(start).Microseconds()) / 1000.0,
				ItemsProcessed: processed,
			})
		}
	}

	return records, metrics
}

// runModule dispatches one module over the batch and returns the output
// records plus the number of items successfully processed
func (p *Pipeline) runModule(ctx context.Context, module Module, records []domain.SearchResult, config Config) ([]domain.SearchResult, int) {
	if batch, ok := module.(BatchProcessor); ok {
		out, err := p.callBatch(ctx, batch, records, config.Timeout)
		if err != nil {
			// Whole-batch failure: the module's contribution is skipped
			// and every record passes through unchanged
			p.logError(module.Name(), err)
			return records, 0
		}
		return out, len(out)
	}

	if config.ParallelProcessing {
		return p.processChunked(ctx, module, records, config)
	}
	return p.processSequential(ctx, module, records, config)
}

// processSequential runs items one at a time, keeping the original
// record whenever the module fails or times out on it
func (p *Pipeline) processSequential(ctx context.Context, module Module, records []domain.SearchResult, config Config) ([]domain.SearchResult, int) {
	out := make([]domain.SearchResult, len(records))
	processed := 0
	for i, record := range records {
		result, err := p.callItem(ctx, module, record, config.Timeout)
		if err != nil {
			p.logError(module.Name(), err)
			out[i] = record
			continue
		}
		out[i] = result
		processed++
	}
	return out, processed
}

// processChunked dispatches MaxConcurrent items at a time, waits for the
// chunk, then moves on. Output order is preserved by index.
func (p *Pipeline) processChunked(ctx context.Context, module Module, records []domain.SearchResult, config Config) ([]domain.SearchResult, int) {
	out := make([]domain.SearchResult, len(records))
	var processed int
	var mu sync.Mutex

	for start := 0; start < len(records); start += config.MaxConcurrent {
		end := start + config.MaxConcurrent
		if end > len(records) {
			end = len(records)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, record domain.SearchResult) {
				defer wg.Done()
				result, err := p.callItem(ctx, module, record, config.Timeout)
				if err != nil {
					p.logError(module.Name(), err)
					out[idx] = record
					return
				}
				out[idx] = result
				mu.Lock()
				processed++
				mu.Unlock()
			}(i, records[i])
		}
		wg.Wait()
	}

	return out, processed
}

// callItem invokes Process under the advisory timeout. A timed-out
// invocation is not aborted; only its result is discarded.
func (p *Pipeline) callItem(ctx context.Context, module Module, record domain.SearchResult, timeout time.Duration) (domain.SearchResult, error) {
	type outcome struct {
		record domain.SearchResult
		err    error
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("module panic: %v", r)}
			}
		}()
		result, err := module.Process(cctx, record)
		ch <- outcome{record: result, err: err}
	}()

	select {
	case o := <-ch:
		return o.record, o.err
	case <-cctx.Done():
		return record, fmt.Errorf("module %s timed out after %s", module.Name(), timeout)
	}
}

// callBatch invokes ProcessBatch under the advisory timeout
func (p *Pipeline) callBatch(ctx context.Context, module BatchProcessor, records []domain.SearchResult, timeout time.Duration) ([]domain.SearchResult, error) {
	type outcome struct {
		records []domain.SearchResult
		err     error
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("module panic: %v", r)}
			}
		}()
		result, err := module.ProcessBatch(cctx, records)
		ch <- outcome{records: result, err: err}
	}()

	select {
	case o := <-ch:
		return o.records, o.err
	case <-cctx.Done():
		return nil, fmt.Errorf("module %s batch timed out after %s", module.Name(), timeout)
	}
}

func (p *Pipeline) logError(module string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.Warn("Enrichment module failed, passing records through", map[string]interface{}{
		"module": module,
		"error":  err.Error(),
	})
}
