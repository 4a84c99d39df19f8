package council

// Phase tracks the lifecycle of a single council run.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseDebating     Phase = "debating"
	PhaseFinalized    Phase = "finalized"
)

// RoundState is the mutable record threaded through a single run. It is owned
// by one run's controller; only the round executor (outputs) and the
// termination policy (decision) mutate it. It is never shared across runs and
// never persisted.
type RoundState struct {
	RunID     string    `json:"run_id"`
	Profile   Profile   `json:"profile"`
	Candidate Candidate `json:"candidate"`
	Context   Context   `json:"context"`
	Position  Position  `json:"position"`

	// Outputs holds each evaluator's latest output. Later rounds overwrite
	// earlier entries; History keeps the per-round audit trail.
	Outputs map[string]EvaluatorOutput `json:"outputs"`

	// Round counts completed rounds, starting at 0 for the first round.
	Round    int                 `json:"round"`
	Phase    Phase               `json:"phase"`
	Decision *TerminationVerdict `json:"decision,omitempty"`
	History  []RoundRecord       `json:"history,omitempty"`

	// PendingModifications holds, per evaluator, the recommendations behind
	// the MODIFY verdicts of the last round that requested another iteration.
	PendingModifications map[string][]string `json:"pending_modifications,omitempty"`
}

// RoundRecord is the immutable snapshot of one completed round.
type RoundRecord struct {
	Round    int                `json:"round"`
	Verdicts map[string]Verdict `json:"verdicts"`
	Reason   Reason             `json:"reason"`
}

// NewRoundState creates the state for a fresh run in the debating phase.
func NewRoundState(runID string, profile Profile, candidate Candidate, mkt Context, pos Position) *RoundState {
	return &RoundState{
		RunID:     runID,
		Profile:   profile,
		Candidate: candidate,
		Context:   mkt,
		Position:  pos,
		Outputs:   make(map[string]EvaluatorOutput),
		Phase:     PhaseDebating,
	}
}

// SetOutput merges an evaluator's output into the state, overwriting any
// entry from a previous round under the same name.
func (s *RoundState) SetOutput(name string, out EvaluatorOutput) {
	s.Outputs[name] = out
}

// Record appends the completed round's verdicts and decision to the history.
func (s *RoundState) Record(reason Reason) {
	verdicts := make(map[string]Verdict, len(s.Outputs))
	for name, out := range s.Outputs {
		verdicts[name] = out.Verdict
	}
	s.History = append(s.History, RoundRecord{
		Round:    s.Round,
		Verdicts: verdicts,
		Reason:   reason,
	})
}

// CollectModifications rebuilds PendingModifications from the current
// outputs: every MODIFY verdict contributes its recommendations under the
// evaluator's name. Entries from earlier rounds are discarded, so a verdict
// that moved off MODIFY no longer carries stale requests into the next round.
func (s *RoundState) CollectModifications() {
	var pending map[string][]string
	for name, out := range s.Outputs {
		if out.Verdict != VerdictModify || len(out.Recommendations) == 0 {
			continue
		}
		if pending == nil {
			pending = make(map[string][]string)
		}
		pending[name] = append([]string(nil), out.Recommendations...)
	}
	s.PendingModifications = pending
}

// AverageConfidence is the mean confidence across all current outputs,
// 0 when no evaluator has reported.
func (s *RoundState) AverageConfidence() float64 {
	if len(s.Outputs) == 0 {
		return 0
	}
	var sum float64
	for _, out := range s.Outputs {
		sum += out.Confidence
	}
	return sum / float64(len(s.Outputs))
}

// FinalRecommendation is the immutable result of a finished run.
type FinalRecommendation struct {
	RunID             string                     `json:"run_id"`
	Verdicts          map[string]Verdict         `json:"verdicts"`
	Outputs           map[string]EvaluatorOutput `json:"outputs"`
	Decision          TerminationVerdict         `json:"decision"`
	Consensus         bool                       `json:"consensus"`
	Rounds            int                        `json:"rounds"`
	AverageConfidence float64                    `json:"average_confidence"`
	History           []RoundRecord              `json:"history,omitempty"`
}

// Finalize freezes the state and produces the final recommendation.
// The decision must already be set by the termination policy.
func (s *RoundState) Finalize() FinalRecommendation {
	s.Phase = PhaseFinalized

	verdicts := make(map[string]Verdict, len(s.Outputs))
	outputs := make(map[string]EvaluatorOutput, len(s.Outputs))
	for name, out := range s.Outputs {
		verdicts[name] = out.Verdict
		outputs[name] = out
	}

	var decision TerminationVerdict
	if s.Decision != nil {
		decision = *s.Decision
	}

	return FinalRecommendation{
		RunID:             s.RunID,
		Verdicts:          verdicts,
		Outputs:           outputs,
		Decision:          decision,
		Consensus:         decision.Reason == ReasonConsensus,
		Rounds:            s.Round + 1,
		AverageConfidence: s.AverageConfidence(),
		History:           append([]RoundRecord(nil), s.History...),
	}
}
