// Package heuristic provides the built-in deterministic evaluators. They
// score from their routed view only and are meant as a working council out of
// the box; externally written evaluators can replace any of them by
// registering under the same name.
package heuristic

import (
	"github.com/quorumfin/council/internal/domain/council"
)

// Registry names of the built-in evaluators. The default routing table in the
// config package is keyed by these.
const (
	NameRiskAnalysis        = "risk_analysis"
	NameDevilsAdvocate      = "devils_advocate"
	NamePersonalSuitability = "personal_suitability"
	NameMarketAnalysis      = "market_analysis"
	NameFeasibilityAnalysis = "feasibility_analysis"
)

func profileFrom(view map[string]any) (council.Profile, bool) {
	p, ok := view["profile"].(council.Profile)
	return p, ok
}

func candidateFrom(view map[string]any) (council.Candidate, bool) {
	c, ok := view["candidate"].(council.Candidate)
	return c, ok
}

func contextFrom(view map[string]any) (council.Context, bool) {
	m, ok := view["context"].(council.Context)
	return m, ok
}

func positionFrom(view map[string]any) (council.Position, bool) {
	p, ok := view["position"].(council.Position)
	return p, ok
}

func roundFrom(view map[string]any) int {
	r, ok := view["round"].(int)
	if !ok {
		return 0
	}
	return r
}

func outputFrom(view map[string]any, name string) (council.EvaluatorOutput, bool) {
	out, ok := view[name].(council.EvaluatorOutput)
	return out, ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
