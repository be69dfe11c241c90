package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/model"
)

// DefaultConcurrency is the number of inputs analysed at once.
const DefaultConcurrency = 4

// BatchProcessor analyses several inputs at once, each with its own
// sequential pipeline.
type BatchProcessor struct {
	newPipeline func(source string) *Pipeline
	schema      dataset.Schema
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger for batch events.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency bounds the number of inputs analysed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchSchema sets the schema every input is expected to follow.
func WithBatchSchema(schema dataset.Schema) BatchOption {
	return func(b *BatchProcessor) {
		b.schema = schema
	}
}

// NewBatchProcessor creates a processor that builds one pipeline per input
// with newPipeline, so per-input settings such as the plot file can differ.
func NewBatchProcessor(newPipeline func(source string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		newPipeline: newPipeline,
		schema:      dataset.DefaultSchema(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyses every source and returns one analysis per source,
// in input order. A failing input does not affect the others; its error
// stays in its analysis. Inputs that never started because ctx was done
// come back marked Cancelled, and the context error is returned.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.Analysis, error) {
	began := time.Now()
	bp.logger.Info("batch started", "inputs", len(sources), "concurrency", bp.concurrency)

	analyses := make([]*model.Analysis, len(sources))
	for i, source := range sources {
		analyses[i] = model.NewAnalysis(source, bp.schema)
	}

	g := new(errgroup.Group)
	g.SetLimit(bp.concurrency)

	for i, analysis := range analyses {
		if ctx.Err() != nil {
			analysis.Cancelled = true
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				analysis.Cancelled = true
				return nil
			}
			bp.analyse(ctx, analysis, i+1, len(sources))
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers always return nil

	failed := 0
	for _, a := range analyses {
		if a.Failed() || a.Cancelled {
			failed++
		}
	}
	bp.logger.Info("batch finished",
		"inputs", len(sources),
		"failed", failed,
		"elapsed", time.Since(began),
	)
	return analyses, ctx.Err()
}

// analyse runs the pipeline for one input. Each analysis is touched by a
// single goroutine, so no locking is needed.
func (bp *BatchProcessor) analyse(ctx context.Context, analysis *model.Analysis, n, total int) {
	logger := bp.logger.With("run", analysis.ID, "source", analysis.Source)
	logger.Info("analysing input", "n", n, "of", total)

	if err := bp.newPipeline(analysis.Source).Execute(ctx, analysis); err != nil {
		logger.Warn("analysis failed", "error", err)
		return
	}
	logger.Info("analysis completed", "elapsed", analysis.Elapsed)
}
