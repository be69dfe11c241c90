package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/florastat/internal/model"
)

// Step is one stage of the reporter. A step reads what earlier steps left
// in the analysis and adds its own result.
type Step interface {
	// Do runs the step against analysis.
	Do(ctx context.Context, analysis *model.Analysis) error

	// Name is the short identifier used in logs and step records.
	Name() string
}

// Pipeline runs steps in the order they were added.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. A nil logger keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running after a failed step. The failure is
// still recorded in the analysis and Execute returns nil.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against analysis. The context is checked between
// steps only; a running step is never interrupted by the pipeline.
//
// Each started step leaves a StepRecord in analysis.Steps. On failure the
// error, prefixed with the step name, is stored in the analysis and
// returned unless the pipeline continues on error.
func (p *Pipeline) Execute(ctx context.Context, analysis *model.Analysis) error {
	logger := p.logger.With("run", analysis.ID, "source", analysis.Source)

	start := time.Now()
	defer func() {
		analysis.Elapsed = time.Since(start)
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			logger.Warn("run interrupted", "before", step.Name(), "reason", err)
			analysis.Cancelled = true
			return err
		}

		err := p.run(ctx, logger, step, analysis)
		if err == nil {
			continue
		}
		analysis.SetError(err)
		if !p.continueOnError {
			return err
		}
	}
	return nil
}

// run executes a single step and appends its record.
func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, step Step, analysis *model.Analysis) error {
	name := step.Name()
	logger.Debug("step started", "step", name)

	began := time.Now()
	err := step.Do(ctx, analysis)
	record := model.StepRecord{
		Name:    name,
		Elapsed: time.Since(began),
		Failed:  err != nil,
	}
	analysis.Steps = append(analysis.Steps, record)

	if err != nil {
		logger.Error("step failed", "step", name, "elapsed", record.Elapsed, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Info("step done", "step", name, "elapsed", record.Elapsed)
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
