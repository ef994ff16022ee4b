// Package flow orchestrates named multi-step verification workflows.
//
// Steps run strictly in order, each racing its own timeout. A required step
// that fails aborts the run with every result gathered so far; an optional
// step that fails is recorded and the run continues. Losing the timeout race
// fails the step but does not cancel the action itself: the action may still
// complete later with side effects the run never observes.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veridom/veridom/idgen"
)

// ErrStepTimeout marks a step that lost the race against its timeout.
var ErrStepTimeout = errors.New("flow: step timed out")

// Action is one step's work. It receives the context passed to Execute.
type Action func(ctx context.Context) error

// Step is one named unit of a workflow. Names identify steps within their
// workflow; the harness does not require global uniqueness.
type Step struct {
	Name   string
	Action Action
	// Required aborts the whole run when this step fails.
	Required bool
	// Timeout bounds this step. Zero means the workflow default.
	Timeout time.Duration
}

// StepResult records one executed step.
type StepResult struct {
	Name     string
	OK       bool
	Err      error
	Duration time.Duration
}

// Result is a fully completed run.
type Result struct {
	RunID    string
	Workflow string
	Steps    []StepResult
	Elapsed  time.Duration
}

// AbortError reports a run stopped by a failing required step. Steps holds
// every result gathered up to and including the failing one; later steps
// never ran.
type AbortError struct {
	RunID    string
	Workflow string
	Step     string
	Steps    []StepResult
	Elapsed  time.Duration
	Err      error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("flow: workflow %q aborted at required step %q: %v", e.Workflow, e.Step, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// Options configures workflow execution.
type Options struct {
	// StepTimeout bounds steps that do not set their own. Default: 30s.
	StepTimeout time.Duration
	// IDs generates run identifiers. Default: idgen.Default.
	IDs idgen.Generator
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.StepTimeout <= 0 {
		o.StepTimeout = 30 * time.Second
	}
	if o.IDs == nil {
		o.IDs = idgen.Default
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Workflow is an ordered sequence of steps, mutable only by appending.
type Workflow struct {
	name  string
	opts  Options
	steps []Step
}

// New creates an empty workflow.
func New(name string, opts Options) *Workflow {
	opts.defaults()
	return &Workflow{name: name, opts: opts}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Len returns the number of appended steps.
func (w *Workflow) Len() int { return len(w.steps) }

// Add appends a step and returns the workflow for chaining.
func (w *Workflow) Add(step Step) *Workflow {
	w.steps = append(w.steps, step)
	return w
}

// Execute runs every step front-to-back exactly once. On full completion it
// returns a Result with per-step durations and the total elapsed time. When
// a required step fails it returns a *AbortError instead and no later step
// runs. Step timeouts wrap ErrStepTimeout.
func (w *Workflow) Execute(ctx context.Context) (*Result, error) {
	runID := w.opts.IDs()
	log := w.opts.Logger
	log.Info("flow: run started", "workflow", w.name, "run", runID, "steps", len(w.steps))

	start := time.Now()
	results := make([]StepResult, 0, len(w.steps))

	for _, step := range w.steps {
		res := w.runStep(ctx, step)
		results = append(results, res)

		if res.OK {
			log.Debug("flow: step ok",
				"workflow", w.name, "run", runID, "step", step.Name, "duration", res.Duration)
			continue
		}
		if step.Required {
			log.Warn("flow: required step failed, aborting",
				"workflow", w.name, "run", runID, "step", step.Name, "error", res.Err)
			return nil, &AbortError{
				RunID:    runID,
				Workflow: w.name,
				Step:     step.Name,
				Steps:    results,
				Elapsed:  time.Since(start),
				Err:      res.Err,
			}
		}
		log.Warn("flow: optional step failed, continuing",
			"workflow", w.name, "run", runID, "step", step.Name, "error", res.Err)
	}

	elapsed := time.Since(start)
	log.Info("flow: run finished", "workflow", w.name, "run", runID, "elapsed", elapsed)
	return &Result{RunID: runID, Workflow: w.name, Steps: results, Elapsed: elapsed}, nil
}

// runStep races the action against the step timeout. The action gets the
// caller's context, not a derived one: losing the race must not cancel work
// that may still complete remotely.
func (w *Workflow) runStep(ctx context.Context, step Step) StepResult {
	if step.Action == nil {
		return StepResult{Name: step.Name, Err: errors.New("flow: step has no action")}
	}

	timeout := step.Timeout
	if timeout <= 0 {
		timeout = w.opts.StepTimeout
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- step.Action(ctx)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-done:
	case <-timer.C:
		err = fmt.Errorf("%w after %v", ErrStepTimeout, timeout)
	case <-ctx.Done():
		err = ctx.Err()
	}

	return StepResult{
		Name:     step.Name,
		OK:       err == nil,
		Err:      err,
		Duration: time.Since(start),
	}
}
