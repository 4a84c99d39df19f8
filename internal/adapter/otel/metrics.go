package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "council"

// Metrics holds all council metric instruments.
type Metrics struct {
	RunsStarted     metric.Int64Counter
	RunsFinalized   metric.Int64Counter
	RoundsExecuted  metric.Int64Counter
	EvaluatorFaults metric.Int64Counter
	JudgeFallbacks  metric.Int64Counter
	RoundDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RunsStarted, err = meter.Int64Counter("council.runs.started",
		metric.WithDescription("Number of council runs started"))
	if err != nil {
		return nil, err
	}

	m.RunsFinalized, err = meter.Int64Counter("council.runs.finalized",
		metric.WithDescription("Number of council runs finalized"))
	if err != nil {
		return nil, err
	}

	m.RoundsExecuted, err = meter.Int64Counter("council.rounds.executed",
		metric.WithDescription("Number of debate rounds executed"))
	if err != nil {
		return nil, err
	}

	m.EvaluatorFaults, err = meter.Int64Counter("council.evaluator.faults",
		metric.WithDescription("Number of evaluator invocations recorded as faults"))
	if err != nil {
		return nil, err
	}

	m.JudgeFallbacks, err = meter.Int64Counter("council.judge.fallbacks",
		metric.WithDescription("Number of rounds where the judge was unavailable and rules applied"))
	if err != nil {
		return nil, err
	}

	m.RoundDuration, err = meter.Float64Histogram("council.round.duration_seconds",
		metric.WithDescription("Round duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
