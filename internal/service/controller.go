// Package service implements the consensus loop: input routing, round
// execution, termination, and the run lifecycle.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	otelcouncil "github.com/quorumfin/council/internal/adapter/otel"
	"github.com/quorumfin/council/internal/adapter/ws"
	"github.com/quorumfin/council/internal/domain"
	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/port/datastore"
	"github.com/quorumfin/council/internal/port/evaluator"
	"github.com/quorumfin/council/internal/port/messagequeue"
)

// CouncilService owns the round-state lifecycle of a council run:
// INITIALIZING (load records, validate setup), DEBATING (rounds until the
// termination policy stops), FINALIZED (immutable recommendation). A
// finalized run is not resumable; a new run needs a new RoundState.
type CouncilService struct {
	store     datastore.Store
	registry  *evaluator.Registry
	router    *Router
	executor  *RoundExecutor
	policy    *TerminationPolicy
	maxRounds int

	queue   messagequeue.Queue
	hub     *ws.Hub
	metrics *otelcouncil.Metrics
}

// NewCouncilService creates a CouncilService. queue, hub, and metrics are
// optional and may be nil.
func NewCouncilService(
	store datastore.Store,
	registry *evaluator.Registry,
	router *Router,
	executor *RoundExecutor,
	policy *TerminationPolicy,
	maxRounds int,
	queue messagequeue.Queue,
	hub *ws.Hub,
	metrics *otelcouncil.Metrics,
) *CouncilService {
	return &CouncilService{
		store:     store,
		registry:  registry,
		router:    router,
		executor:  executor,
		policy:    policy,
		maxRounds: maxRounds,
		queue:     queue,
		hub:       hub,
		metrics:   metrics,
	}
}

// Register stores an evaluator under name. Re-registering a name overrides
// the previous evaluator; only the registry key and the evaluator_name echoed
// in its outputs must agree.
func (s *CouncilService) Register(name string, ev evaluator.Evaluator) {
	s.registry.Register(name, ev)
	slog.Info("evaluator registered", "evaluator", name)
}

// Evaluators returns the registered evaluator names in invocation order.
func (s *CouncilService) Evaluators() []string {
	return s.registry.Names()
}

// Initialize constructs the round state for a new run. It validates the
// setup (at least one evaluator, a total routing map, a positive round
// bound) before touching the data-retrieval collaborator, then loads each
// input record exactly once.
func (s *CouncilService) Initialize(ctx context.Context, userID, assetID string, amount, portfolioPct float64) (*council.RoundState, error) {
	if s.maxRounds < 1 {
		return nil, fmt.Errorf("max rounds %d is not positive: %w", s.maxRounds, domain.ErrConfiguration)
	}
	if s.registry.Len() == 0 {
		return nil, fmt.Errorf("no evaluators registered: %w", domain.ErrConfiguration)
	}
	if err := s.router.Validate(s.registry.Names()); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	candidate, err := s.store.GetCandidate(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("load candidate %s: %w", assetID, err)
	}
	mkt, err := s.store.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market context: %w", err)
	}

	position := council.Position{
		ProposedAmount: amount,
		PortfolioPct:   portfolioPct,
	}

	state := council.NewRoundState(uuid.NewString(), profile, candidate, mkt, position)

	slog.Info("council run initialized",
		"run_id", state.RunID,
		"user_id", userID,
		"asset_id", assetID,
		"evaluators", s.registry.Len(),
		"max_rounds", s.maxRounds,
	)
	if s.metrics != nil {
		s.metrics.RunsStarted.Add(ctx, 1)
	}
	s.emitRunStarted(ctx, state)

	return state, nil
}

// Run drives the debate to completion and returns the immutable final
// recommendation. Rounds execute strictly sequentially; after each round the
// termination policy decides REITERATE or TERMINATE, and the policy's
// iteration clamp guarantees the loop ends within the configured bound.
func (s *CouncilService) Run(ctx context.Context, state *council.RoundState) (council.FinalRecommendation, error) {
	if state.Phase != council.PhaseDebating {
		return council.FinalRecommendation{}, fmt.Errorf("run %s is %s, not debating: %w",
			state.RunID, state.Phase, domain.ErrConfiguration)
	}

	ctx, span := otelcouncil.StartRunSpan(ctx, state.RunID, state.Profile.UserID, state.Candidate.AssetID)
	defer span.End()

	for {
		rctx, roundSpan := otelcouncil.StartRoundSpan(ctx, state.RunID, state.Round)
		started := time.Now()

		err := s.executor.ExecuteRound(rctx, state)
		if err != nil {
			roundSpan.End()
			return council.FinalRecommendation{}, err
		}

		verdict := s.policy.Decide(rctx, state)
		state.Record(verdict.Reason)
		roundSpan.End()

		if s.metrics != nil {
			s.metrics.RoundsExecuted.Add(ctx, 1)
			s.metrics.RoundDuration.Record(ctx, time.Since(started).Seconds())
		}

		slog.Info("round decided",
			"run_id", state.RunID,
			"round", state.Round,
			"action", verdict.Action,
			"reason", verdict.Reason,
		)
		s.emitRoundCompleted(ctx, state, verdict)

		if verdict.Terminal() {
			break
		}
		state.CollectModifications()
		state.Round++
	}

	final := state.Finalize()

	slog.Info("council run finalized",
		"run_id", final.RunID,
		"rounds", final.Rounds,
		"reason", final.Decision.Reason,
		"consensus", final.Consensus,
		"average_confidence", final.AverageConfidence,
	)
	if s.metrics != nil {
		s.metrics.RunsFinalized.Add(ctx, 1)
	}
	s.emitRunFinalized(ctx, final)

	return final, nil
}

// FinalVerdicts extracts the name-to-verdict mapping from a run's state.
func (s *CouncilService) FinalVerdicts(state *council.RoundState) map[string]council.Verdict {
	verdicts := make(map[string]council.Verdict, len(state.Outputs))
	for name, out := range state.Outputs {
		verdicts[name] = out.Verdict
	}
	return verdicts
}
