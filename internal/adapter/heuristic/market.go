package heuristic

import (
	"context"
	"fmt"

	"github.com/quorumfin/council/internal/domain/council"
)

// MarketAnalysis judges the entry timing from the market snapshot alone. It
// sees no investor data; the suitability evaluator covers that side.
type MarketAnalysis struct{}

// NewMarketAnalysis creates the built-in market evaluator.
func NewMarketAnalysis() *MarketAnalysis { return &MarketAnalysis{} }

// Name returns the registry name.
func (e *MarketAnalysis) Name() string { return NameMarketAnalysis }

// Evaluate scores current market conditions for a new entry.
func (e *MarketAnalysis) Evaluate(_ context.Context, view map[string]any) (council.EvaluatorOutput, error) {
	market, ok := contextFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing context")
	}
	round := roundFrom(view)

	var findings []string
	score := 0.5

	switch market.MarketTrend {
	case council.TrendBull:
		score += 0.25
		findings = append(findings, "bull trend favors new entries")
	case council.TrendBear:
		score -= 0.25
		findings = append(findings, "bear trend argues for waiting or hedging")
	default:
		findings = append(findings, "sideways trend; no directional tailwind")
	}

	switch {
	case market.VolatilityIndex >= 30:
		score -= 0.25
		findings = append(findings, fmt.Sprintf("volatility index %.1f signals unstable pricing", market.VolatilityIndex))
	case market.VolatilityIndex <= 18:
		score += 0.1
		findings = append(findings, fmt.Sprintf("volatility index %.1f is calm", market.VolatilityIndex))
	}

	if market.MacroRiskLevel == council.RiskHigh {
		score -= 0.2
		findings = append(findings, "macro risk level is HIGH")
	}

	verdict := council.VerdictApprove
	switch {
	case score < 0.35:
		verdict = council.VerdictReject
	case score < 0.55:
		verdict = council.VerdictModify
	}

	confidence := clamp01(0.65 + 0.05*float64(round) + (score-0.5)/2)

	return council.EvaluatorOutput{
		EvaluatorName: NameMarketAnalysis,
		Verdict:       verdict,
		Confidence:    confidence,
		KeyFindings:   findings,
		Reasoning: fmt.Sprintf(
			"Market entry score %.2f under %s trend, volatility %.1f, %s macro risk, %s rates; round %d.",
			score, market.MarketTrend, market.VolatilityIndex, market.MacroRiskLevel, market.InterestRateRegime, round),
		Metrics: map[string]float64{
			"entry_score":      score,
			"volatility_index": market.VolatilityIndex,
		},
	}, nil
}
