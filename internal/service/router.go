package service

import (
	"fmt"

	"github.com/quorumfin/council/internal/domain"
	"github.com/quorumfin/council/internal/domain/council"
)

// View terms that route input records rather than evaluator outputs.
const (
	termProfile   = "profile"
	termCandidate = "candidate"
	termContext   = "context"
	termPosition  = "position"
	termRound     = "round"
)

// Router computes, per evaluator, the exact subset of round state that
// evaluator is allowed to see. The visibility map is static configuration
// keyed by evaluator name; each entry lists record fields and/or the names of
// other evaluators whose latest output is routed in. Routing never mutates
// state, and an evaluator never receives a term its entry does not list.
type Router struct {
	routes map[string][]string
}

// NewRouter creates a Router over the given visibility map.
func NewRouter(routes map[string][]string) *Router {
	return &Router{routes: routes}
}

// Validate checks that the map is total over the registered evaluator names
// and references only known terms. It is called before any evaluator in a
// round is invoked; a failure is a configuration error, not a per-evaluator
// fault.
func (r *Router) Validate(names []string) error {
	registered := make(map[string]bool, len(names))
	for _, name := range names {
		registered[name] = true
	}

	for _, name := range names {
		entry, ok := r.routes[name]
		if !ok {
			return fmt.Errorf("no routing entry for evaluator %q: %w", name, domain.ErrConfiguration)
		}
		for _, term := range entry {
			switch term {
			case termProfile, termCandidate, termContext, termPosition, termRound:
				continue
			}
			if !registered[term] {
				return fmt.Errorf("routing entry for %q references unknown term %q: %w",
					name, term, domain.ErrConfiguration)
			}
		}
	}
	return nil
}

// View builds the input view for one evaluator. Evaluator-output terms are
// included only when that evaluator has already produced an output, either
// earlier in the current round (per registry order) or in a previous round.
func (r *Router) View(name string, state *council.RoundState) map[string]any {
	view := make(map[string]any)
	for _, term := range r.routes[name] {
		switch term {
		case termProfile:
			view[termProfile] = state.Profile
		case termCandidate:
			view[termCandidate] = state.Candidate
		case termContext:
			view[termContext] = state.Context
		case termPosition:
			view[termPosition] = state.Position
		case termRound:
			view[termRound] = state.Round
		default:
			if out, ok := state.Outputs[term]; ok {
				view[term] = out
			}
		}
	}
	return view
}
