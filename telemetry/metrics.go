package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SweepMetrics holds sweep counters following OTEL semantic conventions.
type SweepMetrics struct {
	outcomes      metric.Int64Counter
	discovered    metric.Int64Counter
	sweepDuration metric.Float64Histogram
}

// NewSweepMetrics creates the sweep instruments.
func NewSweepMetrics() (*SweepMetrics, error) {
	meter := otel.Meter("raivaus.sweep")

	outcomes, err := meter.Int64Counter(
		"raivaus.sweep.outcomes",
		metric.WithDescription("Per-resource sweep outcomes by action"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	discovered, err := meter.Int64Counter(
		"raivaus.sweep.resources.discovered",
		metric.WithDescription("Resources discovered across all scopes"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"raivaus.sweep.duration",
		metric.WithDescription("Duration of full sweep runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SweepMetrics{
		outcomes:      outcomes,
		discovered:    discovered,
		sweepDuration: sweepDuration,
	}, nil
}

// RecordOutcome counts one per-resource outcome.
func (m *SweepMetrics) RecordOutcome(ctx context.Context, action, kind string) {
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("kind", kind),
	))
}

// RecordSweep records a finished run.
func (m *SweepMetrics) RecordSweep(ctx context.Context, duration time.Duration, discovered int) {
	m.sweepDuration.Record(ctx, duration.Seconds())
	m.discovered.Add(ctx, int64(discovered))
}
