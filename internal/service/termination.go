package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	otelcouncil "github.com/quorumfin/council/internal/adapter/otel"
	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/port/judge"
)

// Strategy decides, from a completed round's state, whether the debate should
// continue. Both strategies conform to the same contract so the loop
// controller is agnostic to which is active.
type Strategy interface {
	Evaluate(ctx context.Context, state *council.RoundState) council.TerminationVerdict
}

// RuleStrategy is the deterministic strategy, always available and used as
// fallback when the judgment collaborator is lost.
type RuleStrategy struct {
	// Threshold is the per-evaluator confidence floor below which another
	// round is requested.
	Threshold float64
}

// Evaluate applies the fixed-priority decision rules; only the first matching
// rule fires.
func (s RuleStrategy) Evaluate(_ context.Context, state *council.RoundState) council.TerminationVerdict {
	names := sortedOutputNames(state)
	if len(names) == 0 {
		return council.TerminationVerdict{
			Action:  council.ActionReiterate,
			Reason:  council.ReasonNoOutputs,
			Details: map[string]any{"message": "no evaluator outputs recorded"},
		}
	}

	blocking := make(map[string][]string)
	for _, name := range names {
		if issues := state.Outputs[name].BlockingIssues; len(issues) > 0 {
			blocking[name] = issues
		}
	}
	if len(blocking) > 0 {
		return council.TerminationVerdict{
			Action:  council.ActionReiterate,
			Reason:  council.ReasonBlockingIssue,
			Details: map[string]any{"blocking": blocking},
		}
	}

	var rejecting []string
	for _, name := range names {
		if state.Outputs[name].Verdict == council.VerdictReject {
			rejecting = append(rejecting, name)
		}
	}
	if len(rejecting) > 0 {
		return council.TerminationVerdict{
			Action:  council.ActionReiterate,
			Reason:  council.ReasonRejectPresent,
			Details: map[string]any{"rejecting": rejecting},
		}
	}

	confidences := make(map[string]float64, len(names))
	low := false
	for _, name := range names {
		c := state.Outputs[name].Confidence
		confidences[name] = c
		if c < s.Threshold {
			low = true
		}
	}
	if low {
		return council.TerminationVerdict{
			Action: council.ActionReiterate,
			Reason: council.ReasonLowConfidence,
			Details: map[string]any{
				"threshold":   s.Threshold,
				"confidences": confidences,
			},
		}
	}

	verdicts := make(map[string]string, len(names))
	for _, name := range names {
		verdicts[name] = string(state.Outputs[name].Verdict)
	}
	return council.TerminationVerdict{
		Action: council.ActionTerminate,
		Reason: council.ReasonConsensus,
		Details: map[string]any{
			"average_confidence": state.AverageConfidence(),
			"verdicts":           verdicts,
		},
	}
}

// JudgmentStrategy delegates the decision to the external judgment
// collaborator. Loss of the collaborator is never fatal: any error, timeout,
// or unparseable decision falls back to the rule strategy for that round.
type JudgmentStrategy struct {
	judge     judge.Judge
	timeout   time.Duration
	maxRounds int
	fallback  RuleStrategy
	metrics   *otelcouncil.Metrics
}

// NewJudgmentStrategy creates a JudgmentStrategy with the given fallback.
// metrics may be nil.
func NewJudgmentStrategy(j judge.Judge, timeout time.Duration, maxRounds int, fallback RuleStrategy, metrics *otelcouncil.Metrics) *JudgmentStrategy {
	return &JudgmentStrategy{
		judge:     j,
		timeout:   timeout,
		maxRounds: maxRounds,
		fallback:  fallback,
		metrics:   metrics,
	}
}

// Evaluate submits a summary of every evaluator's verdict, confidence, and
// full reasoning to the judgment collaborator.
func (s *JudgmentStrategy) Evaluate(ctx context.Context, state *council.RoundState) council.TerminationVerdict {
	if s.judge == nil {
		return s.fallback.Evaluate(ctx, state)
	}

	summary := buildJudgeSummary(state, s.maxRounds)
	if len(summary.Evaluations) == 0 {
		return s.fallback.Evaluate(ctx, state)
	}

	jctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		jctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	decision, err := s.judge.Judge(jctx, summary)
	if err != nil {
		slog.Warn("judgment collaborator unavailable, falling back to rule strategy",
			"run_id", state.RunID,
			"round", state.Round,
			"error", err,
		)
		return s.fallbackEvaluate(ctx, state)
	}

	if decision.Action != council.ActionTerminate && decision.Action != council.ActionReiterate {
		slog.Warn("judgment collaborator returned unparseable action, falling back to rule strategy",
			"run_id", state.RunID,
			"round", state.Round,
			"action", string(decision.Action),
		)
		return s.fallbackEvaluate(ctx, state)
	}

	return council.TerminationVerdict{
		Action: decision.Action,
		Reason: council.ReasonJudged,
		Details: map[string]any{
			"judge_reason":  decision.Reason,
			"judge_details": decision.Details,
		},
	}
}

// fallbackEvaluate applies the rule strategy after a lost judge, counting the
// fallback for observability.
func (s *JudgmentStrategy) fallbackEvaluate(ctx context.Context, state *council.RoundState) council.TerminationVerdict {
	if s.metrics != nil {
		s.metrics.JudgeFallbacks.Add(ctx, 1)
	}
	return s.fallback.Evaluate(ctx, state)
}

// buildJudgeSummary digests the round for the judgment collaborator. The
// reasoning text is passed through whole; it is the only field the judge
// reads to understand each evaluator's position.
func buildJudgeSummary(state *council.RoundState, maxRounds int) council.JudgeSummary {
	names := sortedOutputNames(state)
	evals := make([]council.EvaluationSummary, 0, len(names))
	for _, name := range names {
		out := state.Outputs[name]
		evals = append(evals, council.EvaluationSummary{
			Name:       name,
			Verdict:    out.Verdict,
			Confidence: out.Confidence,
			Reasoning:  out.Reasoning,
		})
	}
	return council.JudgeSummary{
		Round:       state.Round,
		MaxRounds:   maxRounds,
		Profile:     state.Profile,
		Candidate:   state.Candidate,
		Evaluations: evals,
	}
}

// TerminationPolicy wraps the active strategy and applies the iteration-limit
// clamp after it runs: a REITERATE at the final permitted round is forced to
// TERMINATE, so a run can never exceed max_rounds.
type TerminationPolicy struct {
	strategy  Strategy
	maxRounds int
}

// NewTerminationPolicy creates a policy over the given strategy.
func NewTerminationPolicy(strategy Strategy, maxRounds int) *TerminationPolicy {
	return &TerminationPolicy{strategy: strategy, maxRounds: maxRounds}
}

// Decide produces the round's termination verdict and sets the state's
// decision slot.
func (p *TerminationPolicy) Decide(ctx context.Context, state *council.RoundState) council.TerminationVerdict {
	verdict := p.strategy.Evaluate(ctx, state)

	if verdict.Action == council.ActionReiterate && state.Round >= p.maxRounds-1 {
		verdict = council.TerminationVerdict{
			Action:  council.ActionTerminate,
			Reason:  council.ReasonIterationLimit,
			Details: verdict.Details,
		}
	}

	state.Decision = &verdict
	return verdict
}

func sortedOutputNames(state *council.RoundState) []string {
	names := make([]string, 0, len(state.Outputs))
	for name := range state.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
