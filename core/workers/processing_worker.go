// ABOUTME: Background worker pool for asynchronous result batch processing
// ABOUTME: Jobs run the full result pipeline off the request path

package workers

import (
	"context"
	"sync"
	"time"

	"search-results-api/core/domain"
	"search-results-api/core/interfaces"
	"search-results-api/core/pipeline"
)

// ProcessingJob represents one batch to process in the background
type ProcessingJob struct {
	Query    string
	Records  []domain.SearchResult
	Options  pipeline.Options
	Context  context.Context
	ResultCh chan<- *pipeline.Result
	ErrorCh  chan<- error
}

// ProcessingWorker manages background pipeline processing
type ProcessingWorker struct {
	pipeline   *pipeline.Service
	store      interfaces.ResultStore
	logger     interfaces.Logger
	jobQueue   chan *ProcessingJob
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	// mu serializes lifecycle transitions against submissions: Stop
	// closes jobQueue under the write lock, SubmitJob sends under the
	// read lock, so a send can never race the close
	mu      sync.RWMutex
	running bool
}

// WorkerConfig holds configuration for the processing worker
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 4,
		QueueSize:  64,
	}
}

// NewProcessingWorker creates a new processing worker pool. The store
// may be nil to skip persisting background outcomes.
func NewProcessingWorker(pipe *pipeline.Service, store interfaces.ResultStore, logger interfaces.Logger, config WorkerConfig) *ProcessingWorker {
	ctx, cancel := context.WithCancel(context.Background())

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkerConfig().MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerConfig().QueueSize
	}

	return &ProcessingWorker{
		pipeline:   pipe,
		store:      store,
		logger:     logger,
		jobQueue:   make(chan *ProcessingJob, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the worker pool
func (w *ProcessingWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	for i := 0; i < w.maxWorkers; i++ {
		w.wg.Add(1)
		go w.run()
	}

	w.running = true
	return nil
}

// Stop stops the worker pool gracefully, draining queued jobs
func (w *ProcessingWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.jobQueue)
	w.wg.Wait()
	w.cancel()

	w.running = false
	return nil
}

// SubmitJob submits a job to the worker pool
func (w *ProcessingWorker) SubmitJob(job *ProcessingJob) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.running {
		return ErrWorkerNotRunning
	}

	select {
	case w.jobQueue <- job:
		return nil
	case <-time.After(5 * time.Second):
		return ErrQueueFull
	}
}

// ProcessAsync enqueues a batch for background processing, dropping the
// job silently when the queue is saturated
func (w *ProcessingWorker) ProcessAsync(ctx context.Context, query string, records []domain.SearchResult, opts pipeline.Options) {
	job := &ProcessingJob{
		Query:   query,
		Records: records,
		Options: opts,
		Context: ctx,
	}
	_ = w.SubmitJob(job)
}

// run is the main loop for each worker
func (w *ProcessingWorker) run() {
	defer w.wg.Done()

	for job := range w.jobQueue {
		w.processJob(job)
	}
}

// processJob runs one batch through the pipeline and persists the outcome
func (w *ProcessingWorker) processJob(job *ProcessingJob) {
	ctx := job.Context
	if ctx == nil {
		ctx = w.ctx
	}

	outcome, err := w.pipeline.Process(ctx, job.Records, job.Options)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("Background processing failed", map[string]interface{}{
				"query": job.Query,
				"error": err.Error(),
			})
		}
		if job.ErrorCh != nil {
			select {
			case job.ErrorCh <- err:
			default:
			}
		}
		return
	}

	if w.store != nil && job.Query != "" {
		if err := w.store.SaveResults(ctx, job.Query, outcome.Results); err != nil && w.logger != nil {
			w.logger.Warn("Failed to persist background outcome", map[string]interface{}{
				"query": job.Query,
				"error": err.Error(),
			})
		}
	}

	if job.ResultCh != nil {
		select {
		case job.ResultCh <- outcome:
		case <-ctx.Done():
		}
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
