package pipeline

import (
	"context"
	"log/slog"

	"github.com/ticoet/geoscan/internal/model"
)

// Audit carries the state of one audit through the pipeline: the
// immutable request, the markup produced by acquisition, and the
// report the later steps fill in.
type Audit struct {
	// Request is the audit request. Steps never mutate it.
	Request *model.AuditRequest

	// Markup is the accepted page markup, set by the acquire step.
	Markup string

	// Report accumulates the audit result.
	Report *model.AuditReport
}

// NewAudit creates the pipeline state for one request.
func NewAudit(req *model.AuditRequest) *Audit {
	return &Audit{
		Request: req,
		Report:  model.NewAuditReport(req),
	}
}

// Step defines the interface that all pipeline steps implement.
// Steps execute in sequence, each receiving the accumulated audit
// state from the previous steps.
//
// Design decision: We use an interface rather than function types
// because:
//  1. It allows steps to carry configuration state
//  2. It provides a Name() method for logging and debugging
//  3. It's more extensible for future features
type Step interface {
	// Do executes the pipeline step. A returned error aborts the
	// audit; no partial report is ever delivered past a failed step.
	Do(ctx context.Context, audit *Audit) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of the audit steps in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline. Steps are added with AddSteps and run in
// insertion order.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// Execute runs all steps in sequence against the audit state.
//
// Design decision: We check context.Done() before each step rather
// than during, because steps handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
//
// The first step error aborts the run and is returned unwrapped, so
// callers can match the acquisition and input error types.
func (p *Pipeline) Execute(ctx context.Context, audit *Audit) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", audit.Report.URL,
		)

		if err := step.Do(ctx, audit); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", audit.Report.URL,
				"error", err,
			)
			return err
		}
	}
	return nil
}
