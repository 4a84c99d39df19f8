// Package evaluator defines the evaluator collaborator port and the ordered
// registry the round executor invokes evaluators from.
package evaluator

import (
	"context"

	"github.com/quorumfin/council/internal/domain/council"
)

// Evaluator judges a proposed position from one angle. Implementations must
// be stateless, must not communicate with other evaluators except through the
// routed input view, and must honor ctx cancellation (the executor applies a
// per-invocation timeout).
type Evaluator interface {
	// Name is the identity the evaluator echoes in EvaluatorOutput.
	// It must match the key the evaluator is registered under.
	Name() string

	// Evaluate judges the routed view and returns one output for the round.
	// The view contains only the fields the input router lists for this
	// evaluator; its shape is a plain keyed mapping.
	Evaluate(ctx context.Context, view map[string]any) (council.EvaluatorOutput, error)
}
