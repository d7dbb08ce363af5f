// Package runner orchestrates multi-file reviews: it discovers eligible
// source files, fans analysis out across a bounded worker pool, and
// aggregates issues and per-file metrics behind minimal critical sections.
package runner

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/KuaaMU/codesage/pkg/analyzers/analyze"
	"github.com/KuaaMU/codesage/pkg/analyzers/metrics"
	"github.com/KuaaMU/codesage/pkg/lang"
	"github.com/KuaaMU/codesage/pkg/review"
)

// ProgressFunc is invoked once per completed file, success or failure.
type ProgressFunc func(done, total int, path string)

// Runner executes the analyzer registry over files and trees.
type Runner struct {
	registry *analyze.Registry
	logger   *slog.Logger
	progress ProgressFunc
	workers  int
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the worker pool. Values below one fall back to the CPU
// count.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.workers = n
		}
	}
}

// WithLogger sets the structured logger for per-file skip events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProgress registers a per-completed-file callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// New creates a Runner over the given registry.
func New(registry *analyze.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		logger:   slog.Default(),
		workers:  runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Batch is the aggregate outcome of a tree review. Once returned it is
// immutable; ordering of Issues is not guaranteed, but the multiset is
// deterministic for a fixed input tree.
type Batch struct {
	Issues  []review.Issue
	Metrics map[string]review.CodeMetrics

	FilesAnalyzed int
	FilesSkipped  int
}

// SeverityCounts buckets the batch issues by severity, indexed P0..P3.
func (b *Batch) SeverityCounts() [4]int {
	var counts [4]int

	for _, issue := range b.Issues {
		counts[issue.Severity]++
	}

	return counts
}

// ReviewFile analyzes a single file synchronously. Any error (unreadable
// file, unsupported extension, analyzer failure) aborts the run; there is no
// batch to fall back on.
func (r *Runner) ReviewFile(path string) (review.Result, error) {
	ctx, err := lang.LoadContext(path)
	if err != nil {
		return review.Result{}, err
	}

	issues, err := r.registry.AnalyzeAll(ctx)
	if err != nil {
		return review.Result{}, err
	}

	return review.NewResult(path, issues, metrics.Compute(ctx.Source)), nil
}

// ReviewTree discovers eligible files under root and analyzes them across
// the worker pool. Per-file failures are logged and skipped; the batch never
// aborts because of one file. Only discovery failures return an error.
func (r *Runner) ReviewTree(root string, extensions []string) (*Batch, error) {
	files, err := Discover(root, extensions, r.logger)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Metrics: make(map[string]review.CodeMetrics, len(files))}
	total := len(files)

	var (
		mu        sync.Mutex
		completed int
		wg        sync.WaitGroup
	)

	sem := make(chan struct{}, r.workers)

	for _, path := range files {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			issues, fileMetrics, fileErr := r.analyzeOne(path)

			// The lock covers only the merge and progress increment; the
			// analysis above runs unserialized.
			mu.Lock()

			if fileErr != nil {
				batch.FilesSkipped++
			} else {
				batch.Issues = append(batch.Issues, issues...)
				batch.Metrics[path] = fileMetrics
				batch.FilesAnalyzed++
			}

			completed++
			done := completed

			mu.Unlock()

			if fileErr != nil {
				r.logger.Warn("skipping file", "path", path, "error", fileErr)
			}

			if r.progress != nil {
				r.progress(done, total, path)
			}
		}()
	}

	wg.Wait()

	return batch, nil
}

func (r *Runner) analyzeOne(path string) ([]review.Issue, review.CodeMetrics, error) {
	ctx, err := lang.LoadContext(path)
	if err != nil {
		return nil, review.CodeMetrics{}, err
	}

	issues, err := r.registry.AnalyzeAll(ctx)
	if err != nil {
		return nil, review.CodeMetrics{}, err
	}

	return issues, metrics.Compute(ctx.Source), nil
}
