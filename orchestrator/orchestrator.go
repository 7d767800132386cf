// Package orchestrator sequences adapters by category, fans out per-scope
// work, and aggregates outcomes.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/executor"
	"github.com/yairfalse/raivaus/filter"
	"github.com/yairfalse/raivaus/report"
	"github.com/yairfalse/raivaus/telemetry"
	"github.com/yairfalse/raivaus/types"
)

// Orchestrator coordinates the discover → filter → delete → confirm flow.
// Categories run strictly in order; inside a category every (adapter, scope)
// pair is an independent worker.
type Orchestrator struct {
	provider adapters.Provider
	opts     types.Options
	mode     executor.Mode
	filter   *filter.Filter
	reporter *report.Reporter
	metrics  *telemetry.SweepMetrics
	logger   *telemetry.Logger
}

// New creates an orchestrator. Run configuration is explicit and immutable
// for the run's duration.
func New(provider adapters.Provider, opts types.Options) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		opts:     opts,
		mode:     executor.NewMode(opts.DryRun, 0),
		filter:   filter.New(opts.Rule),
		reporter: report.NewReporter(),
		logger:   telemetry.NewLogger("orchestrator"),
	}
}

// WithWaitTimeout overrides the post-deletion confirmation timeout.
func (o *Orchestrator) WithWaitTimeout(d time.Duration) *Orchestrator {
	o.mode = executor.NewMode(o.opts.DryRun, d)
	return o
}

// WithMetrics attaches sweep metrics.
func (o *Orchestrator) WithMetrics(m *telemetry.SweepMetrics) *Orchestrator {
	o.metrics = m
	return o
}

// Reporter exposes the audit trail for rendering.
func (o *Orchestrator) Reporter() *report.Reporter {
	return o.reporter
}

// Run executes one sweep. The only error it returns is startup-level (no
// scopes at all); everything discovered after that is contained per resource
// and surfaces in the result and the report.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		StartTime: time.Now(),
		DryRun:    o.opts.DryRun,
	}

	ctx, span := telemetry.Tracer.Start(ctx, "raivaus.sweep",
		trace.WithAttributes(
			attribute.Bool("dry_run", o.opts.DryRun),
			attribute.String("protection_rule", o.opts.Rule.String()),
		),
	)
	defer span.End()

	scopes, err := o.provider.ListScopes(ctx)
	if err != nil {
		return nil, &adapters.FatalStartupError{Cause: err}
	}
	result.Scopes = len(scopes)
	span.SetAttributes(attribute.Int("scopes", len(scopes)))

	o.logger.WithContext(ctx).Info().
		Int("scopes", len(scopes)).
		Bool("dry_run", o.opts.DryRun).
		Str("protection_rule", o.opts.Rule.String()).
		Msg("starting sweep")

	byCategory := groupByCategory(o.provider.Adapters())
	for _, category := range adapters.Categories() {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, "sweep interrupted before category "+string(category))
			break
		}
		o.runCategory(ctx, category, byCategory[category], scopes, result)
	}

	return o.finish(ctx, result), nil
}

// runCategory runs every (adapter, scope) worker of one tier and waits for
// all of them. This barrier is the only cross-kind ordering guarantee.
func (o *Orchestrator) runCategory(ctx context.Context, category adapters.Category, list []adapters.ResourceAdapter, scopes []types.Scope, result *RunResult) {
	if len(list) == 0 {
		return
	}

	ctx, span := telemetry.Tracer.Start(ctx, "raivaus.sweep.category",
		trace.WithAttributes(
			attribute.String("category", string(category)),
			attribute.Int("adapters", len(list)),
		),
	)
	defer span.End()

	o.logger.WithContext(ctx).Info().
		Str("category", string(category)).
		Int("adapters", len(list)).
		Msg("sweeping category")

	// One worker per (adapter, scope) pair; global adapters contribute one
	// pair even when no regional scope exists. The errs buffer must hold one
	// entry per worker or a discovery failure deadlocks against wg.Wait.
	type pair struct {
		adapter adapters.ResourceAdapter
		scope   types.Scope
	}
	var pairs []pair
	for _, adapter := range list {
		for _, scope := range scopesFor(adapter, scopes) {
			pairs = append(pairs, pair{adapter: adapter, scope: scope})
		}
	}

	outcomes := make(chan types.Outcome)
	errs := make(chan string, len(pairs))

	var wg sync.WaitGroup
	for _, p := range pairs {
		wg.Add(1)
		go func(a adapters.ResourceAdapter, s types.Scope) {
			defer wg.Done()
			o.sweepPair(ctx, a, s, outcomes, errs)
		}(p.adapter, p.scope)
	}

	// Single collector serializes appends; workers never block on each other.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for outcome := range outcomes {
			o.reporter.Record(outcome)
			o.count(ctx, outcome, result)
		}
	}()

	wg.Wait()
	close(outcomes)
	<-done

	close(errs)
	for e := range errs {
		result.Errors = append(result.Errors, e)
	}
}

// sweepPair runs discover → filter → apply for one (adapter, scope) pair.
// A discovery failure skips the pair; the run continues.
func (o *Orchestrator) sweepPair(ctx context.Context, adapter adapters.ResourceAdapter, scope types.Scope, outcomes chan<- types.Outcome, errs chan<- string) {
	descriptors, err := adapter.Discover(ctx, scope)
	if err != nil {
		discErr := &adapters.DiscoveryError{Kind: adapter.Kind(), Scope: scope, Cause: err}
		o.logger.WithContext(ctx).Warn().
			Err(discErr).
			Str("kind", adapter.Kind()).
			Str("scope", scope.String()).
			Msg("discovery failed, skipping pair")
		errs <- discErr.Error()
		return
	}

	for _, d := range descriptors {
		// Operator interrupt stops issuing new deletions promptly.
		if ctx.Err() != nil {
			return
		}

		decision, detail := o.filter.Decide(ctx, adapter, d)
		if decision == filter.Skip {
			outcomes <- types.Outcome{
				Descriptor: d,
				Category:   string(adapter.Category()),
				Action:     types.ActionSkipped,
				Detail:     detail,
			}
			continue
		}
		if detail != "" {
			o.logger.LogDegradation(ctx, d.Kind, d.Identity, detail)
		}

		outcome := o.mode.Apply(ctx, adapter, d)
		if detail != "" {
			// Keep the fail-open caveat visible in the audit trail.
			outcome.Detail = detail + "; " + outcome.Detail
		}
		outcomes <- outcome
	}
}

func (o *Orchestrator) count(ctx context.Context, outcome types.Outcome, result *RunResult) {
	result.Discovered++
	switch outcome.Action {
	case types.ActionDeleted:
		result.Deleted++
	case types.ActionSkipped:
		result.Skipped++
	case types.ActionFailed:
		result.Failed++
	}
	if o.metrics != nil {
		o.metrics.RecordOutcome(ctx, string(outcome.Action), outcome.Descriptor.Kind)
	}
}

func (o *Orchestrator) finish(ctx context.Context, result *RunResult) *RunResult {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	if o.metrics != nil {
		o.metrics.RecordSweep(ctx, result.Duration, result.Discovered)
	}

	o.logger.WithContext(ctx).Info().
		Int("discovered", result.Discovered).
		Int("deleted", result.Deleted).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("sweep complete")

	return result
}

func groupByCategory(list []adapters.ResourceAdapter) map[adapters.Category][]adapters.ResourceAdapter {
	grouped := make(map[adapters.Category][]adapters.ResourceAdapter)
	for _, a := range list {
		grouped[a.Category()] = append(grouped[a.Category()], a)
	}
	return grouped
}

// scopesFor returns the scopes an adapter runs in: every regional scope, or
// exactly one global scope regardless of region count.
func scopesFor(a adapters.ResourceAdapter, scopes []types.Scope) []types.Scope {
	if a.Global() {
		return []types.Scope{types.GlobalScope()}
	}
	regional := make([]types.Scope, 0, len(scopes))
	for _, s := range scopes {
		if !s.IsGlobal() {
			regional = append(regional, s)
		}
	}
	return regional
}
