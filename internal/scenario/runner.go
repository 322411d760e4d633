package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolprobe/internal/classify"
	"toolprobe/internal/discovery"
	"toolprobe/internal/telemetry"
	"toolprobe/pkg/logging"
)

// Catalog is the view of the tool catalog the runner needs.
type Catalog interface {
	Lookup(name string) (discovery.ToolHandle, bool)
	Names() []string
}

// Runner executes scenario definitions sequentially against a catalog.
type Runner struct {
	catalog    Catalog
	classifier classify.Classifier
	observer   *telemetry.Observer

	// ContinueOnError records a missing tool as a failed result and carries
	// on. Without it Run stops at the first missing tool.
	ContinueOnError bool
	// CallTimeout bounds every invocation without its own timeout. Zero
	// means no bound.
	CallTimeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithClassifier replaces the default classifier.
func WithClassifier(c classify.Classifier) Option {
	return func(r *Runner) { r.classifier = c }
}

// WithObserver records every invocation with o.
func WithObserver(o *telemetry.Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithContinueOnError sets ContinueOnError.
func WithContinueOnError(v bool) Option {
	return func(r *Runner) { r.ContinueOnError = v }
}

// WithCallTimeout sets CallTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runner) { r.CallTimeout = d }
}

// NewRunner creates a runner over catalog.
func NewRunner(catalog Catalog, opts ...Option) *Runner {
	r := &Runner{catalog: catalog}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes defs in order and returns one result per definition.
//
// Run stops early, returning the results recorded so far together with an
// error, in two cases: ctx is done before a scenario starts, or a tool is
// missing and ContinueOnError is off (the error is a *ToolNotFoundError).
func (r *Runner) Run(ctx context.Context, defs []Definition) ([]InvocationResult, error) {
	results := make([]InvocationResult, 0, len(defs))

	for i, def := range defs {
		if err := ctx.Err(); err != nil {
			logging.Warn("Runner", "Run interrupted before scenario %d of %d", i+1, len(defs))
			return results, err
		}

		logging.Info("Runner", "Running scenario %d/%d: %s (tool %s)", i+1, len(defs), def.DisplayName(), def.Tool)

		result, err := r.runOne(ctx, def)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if result.Success {
			logging.Info("Runner", "Scenario %s passed in %.3fs", result.Scenario, result.Duration.Seconds())
		} else {
			logging.Warn("Runner", "Scenario %s failed in %.3fs: %s", result.Scenario, result.Duration.Seconds(), result.Error)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, def Definition) (InvocationResult, error) {
	result := InvocationResult{
		ToolName: def.Tool,
		Scenario: def.DisplayName(),
	}

	handle, ok := r.catalog.Lookup(def.Tool)
	if !ok {
		notFound := &ToolNotFoundError{Tool: def.Tool, Available: r.catalog.Names()}
		result.StartedAt = time.Now()
		r.observe(ctx, result, ErrorKindToolNotFound)
		if !r.ContinueOnError {
			return InvocationResult{}, notFound
		}
		result.Error = notFound.Error()
		return result, nil
	}
	result.Server = handle.Server()

	callCtx := ctx
	if timeout := r.timeoutFor(def); timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result.StartedAt = time.Now()
	raw, err := handle.Invoke(callCtx, def.Args)
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		kind := ErrorKindInvocation
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			kind = ErrorKindCancelled
		}
		result.Error = err.Error()
		r.observe(ctx, result, kind)
		return result, nil
	}

	result.RawResponse = raw
	if text, isString := raw.(string); isString && def.RequireStringResponse {
		result.Success = true
		result.Data = text
	} else {
		verdict := r.classifier.Classify(raw)
		result.Success = verdict.Success
		result.Data = verdict.Data
		result.Error = verdict.Error
		if !verdict.Success {
			r.observe(ctx, result, ErrorKindClassification)
			return result, nil
		}
	}

	if def.Expect != nil {
		if err := def.Expect.Check(result.Data); err != nil {
			result.Success = false
			result.Data = nil
			result.Error = fmt.Sprintf("expectation failed: %v", err)
			r.observe(ctx, result, ErrorKindExpectation)
			return result, nil
		}
	}

	r.observe(ctx, result, "")
	return result, nil
}

func (r *Runner) timeoutFor(def Definition) time.Duration {
	if def.Timeout > 0 {
		return def.Timeout
	}
	return r.CallTimeout
}

func (r *Runner) observe(ctx context.Context, result InvocationResult, kind string) {
	r.observer.ObserveInvocation(context.WithoutCancel(ctx), telemetry.Observation{
		Tool:      result.ToolName,
		Server:    result.Server,
		Scenario:  result.Scenario,
		Success:   result.Success,
		Started:   result.StartedAt,
		Duration:  result.Duration,
		ErrorKind: kind,
	})
}
