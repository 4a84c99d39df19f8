package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quorumfin/council/internal/domain/council"
)

// Event type constants for WebSocket messages.
const (
	EventRunStarted     = "run.started"
	EventRoundCompleted = "round.completed"
	EventRunFinalized   = "run.finalized"
)

// RunStartedEvent is broadcast when a council run enters the debating phase.
type RunStartedEvent struct {
	RunID   string `json:"run_id"`
	UserID  string `json:"user_id"`
	AssetID string `json:"asset_id"`
}

// RoundCompletedEvent is broadcast after each round's termination decision.
type RoundCompletedEvent struct {
	RunID    string                     `json:"run_id"`
	Round    int                        `json:"round"`
	Action   council.Action             `json:"action"`
	Reason   council.Reason             `json:"reason"`
	Verdicts map[string]council.Verdict `json:"verdicts"`
}

// RunFinalizedEvent is broadcast when a run produces its final recommendation.
type RunFinalizedEvent struct {
	RunID             string         `json:"run_id"`
	Rounds            int            `json:"rounds"`
	Consensus         bool           `json:"consensus"`
	Reason            council.Reason `json:"reason"`
	AverageConfidence float64        `json:"average_confidence"`
}

// BroadcastEvent marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
