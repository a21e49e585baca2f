package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ticoet/geoscan/internal/model"
)

// BatchResult pairs one target with its audit outcome. Failed audits
// carry the error instead of a report.
type BatchResult struct {
	// URL is the audited target.
	URL string

	// Report is the completed audit report, nil when Err is set.
	Report *model.AuditReport

	// Err is the audit failure, nil on success.
	Err error
}

// BatchProcessor audits multiple URLs concurrently. Each target gets
// its own pipeline instance, so no state is shared between audits.
//
// Design decision: We use a separate BatchProcessor rather than
// adding batch functionality to Pipeline because:
//  1. It keeps the Pipeline focused on single-audit execution
//  2. It allows different batch strategies later (rate limiting)
//  3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per target.
	pipelineFactory func() *Pipeline

	// requestFactory builds the request for one target, applying the
	// shared option flags.
	requestFactory func(url string) *model.AuditRequest

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. Both factories are
// called once per target so audits never share mutable state.
func NewBatchProcessor(
	pipelineFactory func() *Pipeline,
	requestFactory func(url string) *model.AuditRequest,
	opts ...BatchOption,
) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		requestFactory:  requestFactory,
		concurrency:     4,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// Process audits every target and returns one result per target in
// input order. Individual audit failures are recorded in their result
// and never stop the rest of the batch; the returned error is only
// set on cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency
// correctly.
func (bp *BatchProcessor) Process(ctx context.Context, targets []string) ([]BatchResult, error) {
	bp.logger.Info("starting batch audit",
		"targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	results := make([]BatchResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			req := bp.requestFactory(target)
			audit := NewAudit(req)
			err := bp.pipelineFactory().Execute(ctx, audit)

			results[i] = BatchResult{URL: target, Err: err}
			if err == nil {
				results[i].Report = audit.Report
			} else {
				bp.logger.Warn("audit failed", "url", target, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch audit complete",
		"targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	return results, err
}
