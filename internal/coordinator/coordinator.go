package coordinator

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"github.com/kreuzberg-io/kreuzberg/internal/extract"
	"github.com/kreuzberg-io/kreuzberg/internal/logger"
	"github.com/kreuzberg-io/kreuzberg/internal/manifest"
	"github.com/kreuzberg-io/kreuzberg/internal/scan"
	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

// Config holds coordinator parallelism and retry settings.
type Config struct {
	Workers    int
	BatchSize  int
	RetryCount int
	RetryDelay time.Duration
}

// Options holds per-run options.
type Options struct {
	// Limit caps the number of documents processed; 0 means all.
	Limit int
	// DryRun extracts without persisting to any store.
	DryRun bool
}

// Coordinator drives one ingestion job: discover files, extract each
// into a document, fan the document out to the configured stores, and
// record the outcome in the manifest.
type Coordinator struct {
	pipeline *extract.Pipeline
	scanner  *scan.Scanner
	stores   *store.Set
	sink     *manifest.Sink
	logger   *logger.Logger

	workers    int
	batchSize  int
	retryCount int
	retryDelay time.Duration
}

// New creates a coordinator.
// Parameters:
//   - pipeline: extraction pipeline.
//   - scanner: input directory scanner.
//   - stores: configured store adapters.
//   - sink: manifest sink.
//   - log: base logger.
//   - cfg: parallelism and retry settings.
// Returns:
//   - *Coordinator: coordinator ready to run jobs.
func New(
	pipeline *extract.Pipeline,
	scanner *scan.Scanner,
	stores *store.Set,
	sink *manifest.Sink,
	log *logger.Logger,
	cfg *Config,
) *Coordinator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	retryCount := cfg.RetryCount
	if retryCount <= 0 {
		retryCount = 1
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Coordinator{
		pipeline:   pipeline,
		scanner:    scanner,
		stores:     stores,
		sink:       sink,
		logger:     log,
		workers:    workers,
		batchSize:  batchSize,
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

// log returns a logger from context if available, otherwise the
// coordinator's own.
func (c *Coordinator) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return c.logger
}

// processResult reports one document's terminal outcome to the collector.
type processResult struct {
	entry domain.ManifestEntry
}

// Run executes one ingestion job. Per-file errors are isolated to
// their document; only configuration errors abort the job. Cancelling
// ctx stops scheduling new documents while in-flight store writes
// finish.
// Parameters:
//   - ctx: context for job-level cancellation.
//   - opts: per-run options; nil uses defaults.
// Returns:
//   - *domain.IngestionJob: job record with final counters.
//   - error: *ConfigError for job-level failures, nil otherwise.
func (c *Coordinator) Run(ctx context.Context, opts *Options) (*domain.IngestionJob, error) {
	if opts == nil {
		opts = &Options{}
	}

	if len(c.stores.Stores) == 0 && !opts.DryRun {
		return nil, &ConfigError{Reason: "no store targets configured"}
	}

	now := time.Now()
	job := &domain.IngestionJob{
		ID:        uuid.New().String(),
		InputDir:  c.scanner.Root(),
		Status:    domain.JobStatusRunning,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx = logger.SetComponent(logger.SetJobID(ctx, job.ID), "coordinator")

	total, err := c.scanner.Snapshot(ctx)
	if err != nil {
		return nil, &ConfigError{Reason: "input scan failed", Err: err}
	}
	if opts.Limit > 0 && total > opts.Limit {
		total = opts.Limit
	}
	job.TotalItems = total

	c.saveJob(ctx, job)
	c.log(ctx).WithFields(logger.Fields{
		logger.FieldCount: total,
		"dry_run":         opts.DryRun,
	}).Info("Starting ingestion job")

	// Fan-out pool shared by all workers; each store write for one
	// document runs as its own task.
	poolSize := c.workers * maxInt(len(c.stores.Stores), 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, &ConfigError{Reason: "worker pool", Err: err}
	}
	defer pool.Release()

	pathsChan := make(chan string, c.workers*2)
	resultsChan := make(chan *processResult, c.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, job.ID, pool, pathsChan, resultsChan, opts)
		}()
	}

	// Collector applies results to the job counters and the manifest.
	var persisted, failed, skipped int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range resultsChan {
			switch result.entry.Status {
			case domain.DocumentStatusPersisted:
				atomic.AddInt64(&persisted, 1)
			case domain.DocumentStatusFailed:
				atomic.AddInt64(&failed, 1)
				c.log(ctx).WithFields(logger.Fields{
					logger.FieldDocument: result.entry.File,
				}).Error("Document failed: " + result.entry.Error)
			default:
				atomic.AddInt64(&skipped, 1)
			}
			if err := c.sink.WriteEntry(&result.entry); err != nil {
				c.log(ctx).WithError(err).Error("Failed to write manifest entry")
			}
		}
	}()

	// Feed discovered files to the workers batch by batch.
	cursor := ""
	scheduled := 0
feed:
	for {
		if ctx.Err() != nil {
			break
		}
		batchLimit := c.batchSize
		if opts.Limit > 0 {
			remaining := opts.Limit - scheduled
			if remaining <= 0 {
				break
			}
			if batchLimit > remaining {
				batchLimit = remaining
			}
		}

		paths, nextCursor, err := c.scanner.FetchBatch(ctx, cursor, batchLimit)
		if err != nil || len(paths) == 0 {
			break
		}
		for _, path := range paths {
			select {
			case pathsChan <- path:
				scheduled++
			case <-ctx.Done():
				break feed
			}
		}
		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	close(pathsChan)
	wg.Wait()
	close(resultsChan)
	<-done

	completed := time.Now()
	job.PersistedItems = int(persisted)
	job.FailedItems = int(failed)
	job.SkippedItems = int(skipped)
	job.CompletedAt = &completed
	job.UpdatedAt = completed
	job.Status = domain.JobStatusCompleted
	if ctx.Err() != nil {
		job.Status = domain.JobStatusFailed
		job.ErrorLog = ctx.Err().Error()
	}

	c.saveJob(context.WithoutCancel(ctx), job)

	if err := c.sink.WriteSummary(&domain.ManifestSummary{
		JobID:       job.ID,
		InputDir:    job.InputDir,
		Status:      job.Status,
		Total:       job.TotalItems,
		Persisted:   job.PersistedItems,
		Failed:      job.FailedItems,
		Skipped:     job.SkippedItems,
		StartedAt:   now,
		CompletedAt: completed,
	}); err != nil {
		c.log(ctx).WithError(err).Error("Failed to write manifest summary")
	}

	c.log(ctx).WithFields(logger.Fields{
		"total":     job.TotalItems,
		"persisted": job.PersistedItems,
		"failed":    job.FailedItems,
		"skipped":   job.SkippedItems,
		"duration":  completed.Sub(now).String(),
	}).Info("Ingestion job completed")

	return job, nil
}

// worker pulls file paths and processes them until the channel closes
// or the context is cancelled.
func (c *Coordinator) worker(ctx context.Context, jobID string, pool *ants.Pool, paths <-chan string, results chan<- *processResult, opts *Options) {
	for path := range paths {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- c.processFile(ctx, jobID, pool, path, opts)
	}
}

// processFile runs one document through extraction and persistence and
// builds its manifest entry.
func (c *Coordinator) processFile(ctx context.Context, jobID string, pool *ants.Pool, path string, opts *Options) *processResult {
	entry := domain.ManifestEntry{JobID: jobID, File: path, CompletedAt: time.Now()}

	doc, err := c.pipeline.ExtractFile(ctx, path)
	if err != nil {
		entry.Status = domain.DocumentStatusFailed
		entry.Error = err.Error()
		entry.CompletedAt = time.Now()
		return &processResult{entry: entry}
	}
	doc.JobID = jobID
	_ = doc.Advance(domain.DocumentStatusExtracted)

	entry.ContentHash = doc.ContentHash

	if opts.DryRun {
		entry.Status = doc.Status
		entry.CompletedAt = time.Now()
		return &processResult{entry: entry}
	}

	acked, skippedTargets, failedTargets, firstErr := c.persist(ctx, pool, doc)

	entry.TargetsAcked = len(acked)
	entry.AckedTargets = acked
	entry.SkippedTargets = skippedTargets
	entry.FailedTargets = failedTargets

	if len(failedTargets) > 0 {
		doc.Fail(firstErr)
		entry.Status = doc.Status
		if firstErr != nil {
			entry.Error = firstErr.Error()
		}
	} else {
		_ = doc.Advance(domain.DocumentStatusPersisted)
		entry.Status = doc.Status
	}
	entry.CompletedAt = time.Now()
	return &processResult{entry: entry}
}

// persist fans the document out to every configured store concurrently.
// A target acks on success; a target that stays unreachable through the
// retry budget is skipped when optional and fails the document when
// required; a permanent store error always fails the document.
func (c *Coordinator) persist(ctx context.Context, pool *ants.Pool, doc *domain.Document) (acked, skipped, failed []domain.TargetName, firstErr error) {
	type targetResult struct {
		target domain.TargetName
		err    error
	}

	// Job cancellation only stops scheduling; a document that reached
	// persistence finishes its writes on a detached context so a clean
	// cancel never records half-written failures.
	writeCtx := context.WithoutCancel(ctx)

	results := make([]targetResult, len(c.stores.Stores))
	var wg sync.WaitGroup
	for i, st := range c.stores.Stores {
		i, st := i, st
		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := store.WithRetry(writeCtx, c.retryCount, c.retryDelay, func() error {
				return st.Upsert(writeCtx, doc)
			})
			results[i] = targetResult{target: st.Name(), err: err}
		}
		if err := pool.Submit(task); err != nil {
			// Pool released during shutdown; run inline so the write
			// still completes.
			task()
		}
	}
	wg.Wait()

	for _, res := range results {
		if res.err == nil {
			acked = append(acked, res.target)
			continue
		}
		required := c.stores.Required[res.target]
		if store.IsTransient(res.err) && !required {
			c.log(ctx).WithFields(logger.Fields{
				logger.FieldDocument: doc.SourcePath,
				logger.FieldTarget:   string(res.target),
			}).Warn("Optional target unreachable, skipping: " + res.err.Error())
			skipped = append(skipped, res.target)
			continue
		}
		failed = append(failed, res.target)
		if firstErr == nil {
			firstErr = res.err
		}
	}

	sortTargets(acked)
	sortTargets(skipped)
	sortTargets(failed)
	return acked, skipped, failed, firstErr
}

// saveJob records job bookkeeping when a relational target is
// configured. Best-effort: the manifest stays the source of truth.
func (c *Coordinator) saveJob(ctx context.Context, job *domain.IngestionJob) {
	if c.stores.Recorder == nil {
		return
	}
	if err := c.stores.Recorder.SaveJob(ctx, job); err != nil {
		c.log(ctx).WithError(err).Warn("Failed to record job state")
	}
}

func sortTargets(targets []domain.TargetName) {
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
