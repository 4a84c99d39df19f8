package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quorumfin/council/internal/adapter/ws"
	"github.com/quorumfin/council/internal/domain/council"
)

// Queue subjects for council lifecycle events.
const (
	SubjectRunStarted     = "council.runs.started"
	SubjectRoundCompleted = "council.rounds.completed"
	SubjectRunFinalized   = "council.runs.finalized"
)

// emitRunStarted announces a run entering the debating phase.
func (s *CouncilService) emitRunStarted(ctx context.Context, state *council.RoundState) {
	payload := ws.RunStartedEvent{
		RunID:   state.RunID,
		UserID:  state.Profile.UserID,
		AssetID: state.Candidate.AssetID,
	}
	s.publish(ctx, SubjectRunStarted, payload)
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventRunStarted, payload)
	}
}

// emitRoundCompleted announces a round's termination decision.
func (s *CouncilService) emitRoundCompleted(ctx context.Context, state *council.RoundState, verdict council.TerminationVerdict) {
	verdicts := make(map[string]council.Verdict, len(state.Outputs))
	for name, out := range state.Outputs {
		verdicts[name] = out.Verdict
	}
	payload := ws.RoundCompletedEvent{
		RunID:    state.RunID,
		Round:    state.Round,
		Action:   verdict.Action,
		Reason:   verdict.Reason,
		Verdicts: verdicts,
	}
	s.publish(ctx, SubjectRoundCompleted, payload)
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventRoundCompleted, payload)
	}
}

// emitRunFinalized announces the final recommendation.
func (s *CouncilService) emitRunFinalized(ctx context.Context, final council.FinalRecommendation) {
	payload := ws.RunFinalizedEvent{
		RunID:             final.RunID,
		Rounds:            final.Rounds,
		Consensus:         final.Consensus,
		Reason:            final.Decision.Reason,
		AverageConfidence: final.AverageConfidence,
	}
	s.publish(ctx, SubjectRunFinalized, payload)
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventRunFinalized, payload)
	}
}

// publish sends an event to the message queue. Event delivery is best-effort
// and never affects the run outcome.
func (s *CouncilService) publish(ctx context.Context, subject string, payload any) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal queue event", "subject", subject, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("publish queue event", "subject", subject, "error", err)
	}
}
