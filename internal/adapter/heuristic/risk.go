package heuristic

import (
	"context"
	"fmt"

	"github.com/quorumfin/council/internal/domain/council"
)

// Exposure caps per risk tolerance, as percentage of total portfolio.
var exposureCaps = map[string]float64{
	council.RiskLow:    10,
	council.RiskMedium: 25,
	council.RiskHigh:   40,
}

// RiskAnalysis scores the proposed position against market volatility, asset
// liquidity, and the investor's exposure cap. Confidence rises per round as
// the debate narrows.
type RiskAnalysis struct{}

// NewRiskAnalysis creates the built-in risk evaluator.
func NewRiskAnalysis() *RiskAnalysis { return &RiskAnalysis{} }

// Name returns the registry name.
func (e *RiskAnalysis) Name() string { return NameRiskAnalysis }

// Evaluate produces the risk verdict for the current round.
func (e *RiskAnalysis) Evaluate(_ context.Context, view map[string]any) (council.EvaluatorOutput, error) {
	profile, ok := profileFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing profile")
	}
	candidate, ok := candidateFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing candidate")
	}
	market, ok := contextFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing context")
	}
	position, ok := positionFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing position")
	}
	round := roundFrom(view)

	var (
		score    float64
		findings []string
		blocking []string
	)

	if market.VolatilityIndex > 25 {
		score += 0.3
		findings = append(findings, fmt.Sprintf("elevated volatility index %.1f", market.VolatilityIndex))
	} else {
		findings = append(findings, fmt.Sprintf("volatility index %.1f within normal range", market.VolatilityIndex))
	}

	if candidate.LiquidityClass == "LOW" {
		score += 0.2
		findings = append(findings, "low liquidity asset limits exit options")
	}

	if market.MacroRiskLevel == council.RiskHigh {
		score += 0.25
		findings = append(findings, "macro risk level is HIGH")
	}

	limit, known := exposureCaps[profile.RiskTolerance]
	if !known {
		limit = exposureCaps[council.RiskMedium]
	}
	if position.PortfolioPct > limit {
		blocking = append(blocking, fmt.Sprintf(
			"position is %.1f%% of portfolio, above the %.0f%% cap for %s risk tolerance",
			position.PortfolioPct, limit, profile.RiskTolerance))
	} else {
		findings = append(findings, fmt.Sprintf("exposure %.1f%% is within the %.0f%% cap", position.PortfolioPct, limit))
	}

	verdict := council.VerdictApprove
	switch {
	case len(blocking) > 0 || score >= 0.7:
		verdict = council.VerdictReject
	case score >= 0.4:
		verdict = council.VerdictModify
	}

	confidence := clamp01(0.72 + 0.06*float64(round) - 0.1*score)
	reasoning := fmt.Sprintf(
		"Risk score %.2f for %s at %.1f%% of portfolio under %s/%s market conditions; round %d.",
		score, candidate.AssetID, position.PortfolioPct, market.MarketTrend, market.MacroRiskLevel, round)

	return council.EvaluatorOutput{
		EvaluatorName:   NameRiskAnalysis,
		Verdict:         verdict,
		Confidence:      confidence,
		KeyFindings:     findings,
		BlockingIssues:  blocking,
		Recommendations: recommendations(verdict, position.PortfolioPct, limit),
		Reasoning:       reasoning,
		Metrics: map[string]float64{
			"risk_score":   score,
			"exposure_pct": position.PortfolioPct,
			"exposure_cap": limit,
		},
	}, nil
}

func recommendations(verdict council.Verdict, exposure, limit float64) []string {
	switch verdict {
	case council.VerdictReject:
		if exposure > limit {
			return []string{fmt.Sprintf("reduce the position to at most %.0f%% of portfolio", limit)}
		}
		return []string{"defer the investment until market conditions improve"}
	case council.VerdictModify:
		return []string{"stage the entry over several tranches to smooth volatility"}
	default:
		return nil
	}
}
