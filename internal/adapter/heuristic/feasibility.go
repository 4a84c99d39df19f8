package heuristic

import (
	"context"
	"fmt"

	"github.com/quorumfin/council/internal/domain/council"
)

// Reserve floor in months of expenses that funding the position must leave
// untouched.
const reserveFloorMonths = 6

// Surplus months beyond which rebuilding the spent reserves is considered
// too slow.
const maxRecoveryMonths = 24

// FeasibilityAnalysis checks whether the position can actually be funded:
// the amount against available savings, the reserve buffer left after
// funding, and how fast the monthly surplus rebuilds what was spent.
type FeasibilityAnalysis struct{}

// NewFeasibilityAnalysis creates the built-in feasibility evaluator.
func NewFeasibilityAnalysis() *FeasibilityAnalysis { return &FeasibilityAnalysis{} }

// Name returns the registry name.
func (e *FeasibilityAnalysis) Name() string { return NameFeasibilityAnalysis }

// Evaluate judges the funding mechanics of the proposed position.
func (e *FeasibilityAnalysis) Evaluate(_ context.Context, view map[string]any) (council.EvaluatorOutput, error) {
	profile, ok := profileFrom(view)
	if !ok {
		return council.EvaluatorOutput{}, fmt.Errorf("view is missing profile")
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

	if position.ProposedAmount > profile.TotalSavings {
		blocking = append(blocking, fmt.Sprintf(
			"proposed amount %.0f cannot be funded from savings of %.0f",
			position.ProposedAmount, profile.TotalSavings))
	} else {
		findings = append(findings, "the position can be funded from savings")
	}

	remaining := profile.TotalSavings - position.ProposedAmount
	var reserveMonths float64
	if profile.MonthlyExpenses > 0 {
		reserveMonths = remaining / profile.MonthlyExpenses
		if len(blocking) == 0 && reserveMonths < reserveFloorMonths {
			concerns++
			findings = append(findings, fmt.Sprintf(
				"funding leaves %.1f months of expenses in reserve, below the %d-month floor",
				reserveMonths, reserveFloorMonths))
		}
	}

	surplus := profile.MonthlyIncome - profile.MonthlyExpenses
	var recoveryMonths float64
	switch {
	case surplus > 0:
		recoveryMonths = position.ProposedAmount / surplus
		if recoveryMonths > maxRecoveryMonths {
			concerns++
			findings = append(findings, fmt.Sprintf(
				"rebuilding the spent reserves would take %.0f months of surplus", recoveryMonths))
		} else {
			findings = append(findings, fmt.Sprintf(
				"surplus rebuilds the spent reserves in %.1f months", recoveryMonths))
		}
	case position.ProposedAmount > 0:
		concerns++
		findings = append(findings, "no monthly surplus to rebuild the spent reserves")
	}

	verdict := council.VerdictApprove
	confidence := 0.84
	var recs []string
	switch {
	case len(blocking) > 0:
		verdict = council.VerdictReject
		confidence = 0.9
		recs = []string{fmt.Sprintf("cap the amount at the %.0f available in savings", profile.TotalSavings)}
	case concerns >= 2:
		verdict = council.VerdictModify
		confidence = 0.72
		recs = []string{"fund a smaller tranche now and the remainder from future surplus"}
	case concerns == 1:
		verdict = council.VerdictModify
		confidence = 0.78
		recs = []string{"rebuild the cash reserve alongside the position"}
	}

	return council.EvaluatorOutput{
		EvaluatorName:   NameFeasibilityAnalysis,
		Verdict:         verdict,
		Confidence:      confidence,
		KeyFindings:     findings,
		BlockingIssues:  blocking,
		Recommendations: recs,
		Reasoning: fmt.Sprintf(
			"Funding %.0f out of %.0f savings leaves %.1f months of reserve; %d concern(s), %d blocking issue(s).",
			position.ProposedAmount, profile.TotalSavings, reserveMonths, concerns, len(blocking)),
		Metrics: map[string]float64{
			"reserve_months":  reserveMonths,
			"recovery_months": recoveryMonths,
		},
	}, nil
}
