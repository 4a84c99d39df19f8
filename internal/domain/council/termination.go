package council

// Action is the termination policy's instruction to the loop controller.
type Action string

const (
	ActionTerminate Action = "TERMINATE"
	ActionReiterate Action = "REITERATE"
)

// Reason classifies why a termination verdict was reached.
type Reason string

const (
	ReasonConsensus      Reason = "CONSENSUS"
	ReasonBlockingIssue  Reason = "BLOCKING_ISSUE"
	ReasonRejectPresent  Reason = "REJECT_PRESENT"
	ReasonLowConfidence  Reason = "LOW_CONFIDENCE"
	ReasonIterationLimit Reason = "ITERATION_LIMIT"
	ReasonJudged         Reason = "JUDGED"
	ReasonNoOutputs      Reason = "NO_OUTPUTS"
)

// TerminationVerdict is the termination policy's decision for one round.
type TerminationVerdict struct {
	Action  Action         `json:"action"`
	Reason  Reason         `json:"reason"`
	Details map[string]any `json:"details,omitempty"`
}

// Terminal reports whether the verdict ends the run.
func (v TerminationVerdict) Terminal() bool {
	return v.Action == ActionTerminate
}
