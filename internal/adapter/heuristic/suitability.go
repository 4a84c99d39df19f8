package heuristic

import (
	"context"
	"fmt"

	"github.com/quorumfin/council/internal/domain/council"
)

// PersonalSuitability checks the position against the investor's own finances:
// liquid reserves, monthly surplus, and investment horizon.
type PersonalSuitability struct{}

// NewPersonalSuitability creates the built-in suitability evaluator.
func NewPersonalSuitability() *PersonalSuitability { return &PersonalSuitability{} }

// Name returns the registry name.
func (e *PersonalSuitability) Name() string { return NamePersonalSuitability }

// Evaluate judges whether the investor can afford and hold the position.
func (e *PersonalSuitability) Evaluate(_ context.Context, view map[string]any) (council.EvaluatorOutput, error) {
	profile, ok := profileFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing profile")
	}
	candidate, ok := candidateFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing candidate")
	}
	position, ok := positionFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing position")
	}

	var (
		findings []string
		blocking []string
		concerns int
	)

	if profile.TotalSavings > 0 {
		share := position.ProposedAmount / profile.TotalSavings
		switch {
		case share > 0.5:
			blocking = append(blocking, fmt.Sprintf(
				"proposed amount is %.0f%% of total savings; above the 50%% affordability ceiling", share*100))
		case share > 0.25:
			concerns++
			findings = append(findings, fmt.Sprintf("proposed amount is %.0f%% of total savings", share*100))
		default:
			findings = append(findings, fmt.Sprintf("proposed amount is a comfortable %.0f%% of total savings", share*100))
		}
	} else if position.ProposedAmount > 0 {
		blocking = append(blocking, "no recorded savings to fund the position")
	}

	surplus := profile.MonthlyIncome - profile.MonthlyExpenses
	if surplus <= 0 {
		concerns++
		findings = append(findings, "no monthly surplus; the position cannot be averaged into")
	} else {
		findings = append(findings, fmt.Sprintf("monthly surplus of %.0f supports the position", surplus))
	}

	if candidate.AssetType == "STOCK" && profile.InvestmentHorizonMonths < 36 {
		concerns++
		findings = append(findings, fmt.Sprintf(
			"equity position against a short %d-month horizon", profile.InvestmentHorizonMonths))
	}

	verdict := council.VerdictApprove
	confidence := 0.85
	switch {
	case len(blocking) > 0:
		verdict = council.VerdictReject
		confidence = 0.9
	case concerns >= 2:
		verdict = council.VerdictModify
		confidence = 0.7
	case concerns == 1:
		verdict = council.VerdictModify
		confidence = 0.78
	}

	return council.EvaluatorOutput{
		EvaluatorName:  NamePersonalSuitability,
		Verdict:        verdict,
		Confidence:     confidence,
		KeyFindings:    findings,
		BlockingIssues: blocking,
		Reasoning: fmt.Sprintf(
			"Suitability of %s for investor %s: %d concern(s), %d blocking issue(s) against a %d-month horizon.",
			candidate.AssetID, profile.UserID, concerns, len(blocking), profile.InvestmentHorizonMonths),
		Metrics: map[string]float64{
			"monthly_surplus": surplus,
			"concerns":        float64(concerns),
		},
	}, nil
}
