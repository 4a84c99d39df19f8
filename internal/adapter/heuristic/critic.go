package heuristic

import (
	"context"
	"fmt"

	"github.com/quorumfin/council/internal/domain/council"
)

// DevilsAdvocate is the council's standing critic. It reads the risk
// evaluator's latest output and pushes back until that analysis is both
// favorable and confident; in a hot market it additionally challenges
// complacency. It never blocks on its own, it argues through verdict and
// confidence.
type DevilsAdvocate struct{}

// NewDevilsAdvocate creates the built-in critic.
func NewDevilsAdvocate() *DevilsAdvocate { return &DevilsAdvocate{} }

// Name returns the registry name.
func (e *DevilsAdvocate) Name() string { return NameDevilsAdvocate }

// Evaluate challenges the round's risk analysis.
func (e *DevilsAdvocate) Evaluate(_ context.Context, view map[string]any) (council.EvaluatorOutput, error) {
	candidate, ok := candidateFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing candidate")
	}
	market, ok := contextFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing context")
	}

	risk, hasRisk := outputFrom(view, NameRiskAnalysis)

	var findings []string
	if market.MarketTrend == council.TrendBull {
		findings = append(findings, "bull market optimism may be masking downside scenarios")
	}
	if candidate.ExpectedReturnPct > 12 {
		findings = append(findings, fmt.Sprintf("expected return %.1f%% looks aggressive; verify assumptions", candidate.ExpectedReturnPct))
	}

	verdict := council.VerdictModify
	confidence := 0.6
	reasoning := "No risk analysis visible yet; withholding agreement until one lands."

	if hasRisk {
		switch {
		case risk.Verdict == council.VerdictReject || len(risk.BlockingIssues) > 0:
			verdict = council.VerdictReject
			confidence = 0.85
			findings = append(findings, "the risk analysis itself rejects this position")
			reasoning = fmt.Sprintf("Risk analysis rejected the position (%s); the critic concurs.", risk.Reasoning)
		case risk.Verdict == council.VerdictApprove && risk.Confidence >= 0.75:
			verdict = council.VerdictApprove
			confidence = clamp01(risk.Confidence + 0.05)
			reasoning = fmt.Sprintf("Risk concerns were answered at confidence %.2f; no unrebutted objection remains.", risk.Confidence)
		default:
			verdict = council.VerdictModify
			confidence = clamp01(risk.Confidence - 0.05)
			reasoning = fmt.Sprintf("Risk analysis is %s at confidence %.2f; that is not a settled case yet.", risk.Verdict, risk.Confidence)
		}
	}

	return council.EvaluatorOutput{
		EvaluatorName: NameDevilsAdvocate,
		Verdict:       verdict,
		Confidence:    confidence,
		KeyFindings:   findings,
		Recommendations: []string{
			"document the bear case alongside the bull case before committing",
		},
		Reasoning: reasoning,
		Metrics: map[string]float64{
			"challenges_raised": float64(len(findings)),
		},
	}, nil
}
