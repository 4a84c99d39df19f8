package council

// EvaluationSummary is one evaluator's contribution to the judge summary.
// Reasoning is included in full; it is the only field the judgment
// collaborator reads to understand the evaluator's position.
type EvaluationSummary struct {
	Name       string  `json:"name"`
	Verdict    Verdict `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// JudgeSummary is the digest of a completed round submitted to the external
// judgment collaborator.
type JudgeSummary struct {
	Round       int                 `json:"round"`
	MaxRounds   int                 `json:"max_rounds"`
	Profile     Profile             `json:"profile"`
	Candidate   Candidate           `json:"candidate"`
	Evaluations []EvaluationSummary `json:"evaluations"`
}

// JudgeDecision is the judgment collaborator's structured response.
// Action must parse to TERMINATE or REITERATE; anything else is treated as
// an unparseable response and the caller falls back to the rule strategy.
// Details carries free-form supporting data (the judge's reasoning, model
// identity); the termination strategy passes it through opaquely.
type JudgeDecision struct {
	Action  Action         `json:"action"`
	Reason  string         `json:"reason"`
	Details map[string]any `json:"details,omitempty"`
}
