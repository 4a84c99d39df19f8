package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	otelcouncil "github.com/quorumfin/council/internal/adapter/otel"
	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/port/evaluator"
)

// RoundExecutor runs one full round: every registered evaluator exactly once,
// sequentially in registry order, each receiving only its routed view. A
// faulting or contract-violating evaluator is recorded as a synthesized
// REJECT output so the round always completes with one output per evaluator;
// the termination policy relies on that as a precondition.
type RoundExecutor struct {
	registry *evaluator.Registry
	router   *Router
	timeout  time.Duration
	metrics  *otelcouncil.Metrics
}

// NewRoundExecutor creates a RoundExecutor. timeout bounds each evaluator
// invocation; expiry is treated as an evaluator fault. metrics may be nil.
func NewRoundExecutor(registry *evaluator.Registry, router *Router, timeout time.Duration, metrics *otelcouncil.Metrics) *RoundExecutor {
	return &RoundExecutor{
		registry: registry,
		router:   router,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// ExecuteRound invokes every registered evaluator once and merges the results
// into state. The only error it returns is a routing configuration error,
// raised before any evaluator is invoked; evaluator faults never abort the
// round.
func (e *RoundExecutor) ExecuteRound(ctx context.Context, state *council.RoundState) error {
	names := e.registry.Names()
	if err := e.router.Validate(names); err != nil {
		return fmt.Errorf("round %d: %w", state.Round, err)
	}

	for _, name := range names {
		ev, _ := e.registry.Get(name)
		view := e.router.View(name, state)

		out, err := e.invoke(ctx, ev, view)
		if err == nil {
			err = out.Validate(name)
		}
		if err != nil {
			slog.Warn("evaluator fault, recording synthesized rejection",
				"run_id", state.RunID,
				"round", state.Round,
				"evaluator", name,
				"error", err,
			)
			if e.metrics != nil {
				e.metrics.EvaluatorFaults.Add(ctx, 1)
			}
			out = faultOutput(name, err)
		}

		state.SetOutput(name, out)
		slog.Debug("evaluator reported",
			"run_id", state.RunID,
			"round", state.Round,
			"evaluator", name,
			"verdict", out.Verdict,
			"confidence", out.Confidence,
		)
	}

	return nil
}

// invoke calls one evaluator under the configured timeout, converting panics
// into errors so one misbehaving evaluator cannot take down the run.
func (e *RoundExecutor) invoke(ctx context.Context, ev evaluator.Evaluator, view map[string]any) (out council.EvaluatorOutput, err error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluator panic: %v", r)
		}
	}()

	sctx, span := otelcouncil.StartEvaluatorSpan(ctx, ev.Name())
	defer span.End()

	return ev.Evaluate(sctx, view)
}

// faultOutput synthesizes the output recorded for a faulted evaluator:
// a hard rejection with zero confidence and the fault as a blocking issue.
func faultOutput(name string, cause error) council.EvaluatorOutput {
	desc := fmt.Sprintf("evaluator %s did not produce a valid output: %v", name, cause)
	return council.EvaluatorOutput{
		EvaluatorName:  name,
		Verdict:        council.VerdictReject,
		Confidence:     0.0,
		BlockingIssues: []string{desc},
		Reasoning:      desc,
	}
}
