package http

import (
	"net/http"

	"github.com/quorumfin/council/internal/service"
)

const maxBodySize = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	svc *service.CouncilService
}

// NewHandlers creates the handler set over the council service.
func NewHandlers(svc *service.CouncilService) *Handlers {
	return &Handlers{svc: svc}
}

type startRunRequest struct {
	UserID       string  `json:"user_id"`
	AssetID      string  `json:"asset_id"`
	Amount       float64 `json:"amount"`
	PortfolioPct float64 `json:"portfolio_pct"`
}

// StartRun runs a full council debate synchronously and returns the final
// recommendation. Round progress is streamed on the WebSocket and the message
// queue while the request is in flight.
func (h *Handlers) StartRun(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startRunRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.UserID, "user_id") || !requireField(w, req.AssetID, "asset_id") {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.PortfolioPct < 0 || req.PortfolioPct > 100 {
		writeError(w, http.StatusBadRequest, "portfolio_pct must be between 0 and 100")
		return
	}

	state, err := h.svc.Initialize(r.Context(), req.UserID, req.AssetID, req.Amount, req.PortfolioPct)
	if err != nil {
		writeDomainError(w, err, "user or asset not found")
		return
	}

	final, err := h.svc.Run(r.Context(), state)
	if err != nil {
		writeDomainError(w, err, "run failed")
		return
	}

	writeJSON(w, http.StatusOK, final)
}

// ListEvaluators returns the registered evaluator names in invocation order.
func (h *Handlers) ListEvaluators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"evaluators": h.svc.Evaluators(),
	})
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
