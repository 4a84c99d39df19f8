package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quorumfin/council/internal/adapter/heuristic"
	councilhttp "github.com/quorumfin/council/internal/adapter/http"
	"github.com/quorumfin/council/internal/adapter/memstore"
	"github.com/quorumfin/council/internal/config"
	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/port/evaluator"
	"github.com/quorumfin/council/internal/service"
)

// newTestRouter assembles a full council over the fixture datastore and the
// built-in evaluators, wired exactly as the daemon does it.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := config.Defaults()
	reg := evaluator.NewRegistry()
	router := service.NewRouter(cfg.Council.Routing)
	executor := service.NewRoundExecutor(reg, router, time.Second, nil)
	policy := service.NewTerminationPolicy(
		service.RuleStrategy{Threshold: cfg.Council.ConfidenceThreshold},
		cfg.Council.MaxRounds,
	)
	svc := service.NewCouncilService(memstore.NewWithFixtures(), reg, router, executor, policy,
		cfg.Council.MaxRounds, nil, nil, nil)

	svc.Register(heuristic.NameRiskAnalysis, heuristic.NewRiskAnalysis())
	svc.Register(heuristic.NameDevilsAdvocate, heuristic.NewDevilsAdvocate())
	svc.Register(heuristic.NamePersonalSuitability, heuristic.NewPersonalSuitability())
	svc.Register(heuristic.NameMarketAnalysis, heuristic.NewMarketAnalysis())
	svc.Register(heuristic.NameFeasibilityAnalysis, heuristic.NewFeasibilityAnalysis())

	r := chi.NewRouter()
	councilhttp.MountRoutes(r, councilhttp.NewHandlers(svc))
	return r
}

func postRun(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStartRunReturnsRecommendation(t *testing.T) {
	r := newTestRouter(t)

	rec := postRun(t, r, `{"user_id": "demo_user", "asset_id": "AAPL_2026", "amount": 10000, "portfolio_pct": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var final council.FinalRecommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &final); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if final.RunID == "" {
		t.Fatal("run_id missing")
	}
	if final.Rounds < 1 || final.Rounds > 5 {
		t.Fatalf("rounds = %d, want within [1, 5]", final.Rounds)
	}
	if len(final.Verdicts) != 5 {
		t.Fatalf("verdicts = %v, want all 5 evaluators", final.Verdicts)
	}
	if !final.Decision.Terminal() {
		t.Fatalf("decision = %+v, want terminal", final.Decision)
	}
}

func TestStartRunValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{
			name: "missing user_id",
			body: `{"asset_id": "AAPL_2026", "amount": 10000, "portfolio_pct": 5}`,
			code: http.StatusBadRequest,
		},
		{
			name: "missing asset_id",
			body: `{"user_id": "demo_user", "amount": 10000, "portfolio_pct": 5}`,
			code: http.StatusBadRequest,
		},
		{
			name: "non-positive amount",
			body: `{"user_id": "demo_user", "asset_id": "AAPL_2026", "amount": 0, "portfolio_pct": 5}`,
			code: http.StatusBadRequest,
		},
		{
			name: "portfolio_pct above 100",
			body: `{"user_id": "demo_user", "asset_id": "AAPL_2026", "amount": 10000, "portfolio_pct": 120}`,
			code: http.StatusBadRequest,
		},
		{
			name: "malformed JSON",
			body: `{"user_id": `,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown user",
			body: `{"user_id": "ghost", "asset_id": "AAPL_2026", "amount": 10000, "portfolio_pct": 5}`,
			code: http.StatusNotFound,
		},
		{
			name: "unknown asset",
			body: `{"user_id": "demo_user", "asset_id": "GHOST", "amount": 10000, "portfolio_pct": 5}`,
			code: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRun(t, r, tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestListEvaluators(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluators", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Evaluators []string `json:"evaluators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []string{
		heuristic.NameRiskAnalysis,
		heuristic.NameDevilsAdvocate,
		heuristic.NamePersonalSuitability,
		heuristic.NameMarketAnalysis,
		heuristic.NameFeasibilityAnalysis,
	}
	if len(resp.Evaluators) != len(want) {
		t.Fatalf("evaluators = %v, want %v", resp.Evaluators, want)
	}
	for i := range want {
		if resp.Evaluators[i] != want[i] {
			t.Fatalf("evaluators = %v, want registration order %v", resp.Evaluators, want)
		}
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
