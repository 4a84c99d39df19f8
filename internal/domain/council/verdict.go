// Package council defines the record model for the multi-agent consensus loop:
// evaluator outputs, round state, termination verdicts, and the input records
// the evaluators judge. The package holds data shapes and their boundary
// validation only; round execution lives in internal/service.
package council

// Verdict is an evaluator's judgment of the proposed position.
type Verdict string

const (
	VerdictApprove Verdict = "APPROVE"
	VerdictModify  Verdict = "MODIFY"
	VerdictReject  Verdict = "REJECT"
)

// Valid reports whether v is one of the three known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictApprove, VerdictModify, VerdictReject:
		return true
	}
	return false
}
