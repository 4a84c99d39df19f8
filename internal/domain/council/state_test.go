package council_test

import (
	"math"
	"testing"

	"github.com/quorumfin/council/internal/domain/council"
)

func newState() *council.RoundState {
	return council.NewRoundState("run-1",
		council.Profile{UserID: "u1"},
		council.Candidate{AssetID: "a1"},
		council.Context{MarketTrend: council.TrendBull},
		council.Position{ProposedAmount: 1000, PortfolioPct: 5},
	)
}

func TestNewRoundStateStartsDebating(t *testing.T) {
	s := newState()
	if s.Phase != council.PhaseDebating {
		t.Fatalf("phase = %q, want debating", s.Phase)
	}
	if s.Round != 0 {
		t.Fatalf("round = %d, want 0", s.Round)
	}
	if len(s.Outputs) != 0 {
		t.Fatalf("outputs not empty: %v", s.Outputs)
	}
}

func TestSetOutputOverwritesPreviousRound(t *testing.T) {
	s := newState()
	s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictReject, Confidence: 0.4})
	s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictApprove, Confidence: 0.9})

	if len(s.Outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(s.Outputs))
	}
	if s.Outputs["risk"].Verdict != council.VerdictApprove {
		t.Fatalf("verdict = %q, want APPROVE", s.Outputs["risk"].Verdict)
	}
}

func TestAverageConfidence(t *testing.T) {
	s := newState()
	if got := s.AverageConfidence(); got != 0 {
		t.Fatalf("empty average = %v, want 0", got)
	}
	s.SetOutput("a", council.EvaluatorOutput{Confidence: 0.8})
	s.SetOutput("b", council.EvaluatorOutput{Confidence: 0.6})
	if got := s.AverageConfidence(); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("average = %v, want 0.7", got)
	}
}

func TestRecordKeepsPerRoundHistory(t *testing.T) {
	s := newState()
	s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictModify})
	s.Record(council.ReasonLowConfidence)
	s.Round++
	s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictApprove})
	s.Record(council.ReasonConsensus)

	if len(s.History) != 2 {
		t.Fatalf("history = %d records, want 2", len(s.History))
	}
	if s.History[0].Verdicts["risk"] != council.VerdictModify {
		t.Fatalf("round 0 verdict = %q, want MODIFY", s.History[0].Verdicts["risk"])
	}
	if s.History[1].Round != 1 || s.History[1].Reason != council.ReasonConsensus {
		t.Fatalf("round 1 record = %+v", s.History[1])
	}
}

func TestCollectModificationsTracksModifyVerdicts(t *testing.T) {
	s := newState()
	s.SetOutput("risk", council.EvaluatorOutput{
		EvaluatorName:   "risk",
		Verdict:         council.VerdictModify,
		Confidence:      0.6,
		Recommendations: []string{"stage the entry"},
	})
	s.SetOutput("fit", council.EvaluatorOutput{EvaluatorName: "fit", Verdict: council.VerdictApprove, Confidence: 0.9})
	s.CollectModifications()

	if len(s.PendingModifications) != 1 {
		t.Fatalf("pending = %v, want only the MODIFY evaluator", s.PendingModifications)
	}
	if got := s.PendingModifications["risk"]; len(got) != 1 || got[0] != "stage the entry" {
		t.Fatalf("pending[risk] = %v", got)
	}

	// Once the verdict moves off MODIFY the request is dropped.
	s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictApprove, Confidence: 0.9})
	s.CollectModifications()
	if s.PendingModifications != nil {
		t.Fatalf("pending = %v, want none after the verdict cleared", s.PendingModifications)
	}
}

func TestFinalizeConsensusFlag(t *testing.T) {
	tests := []struct {
		name      string
		reason    council.Reason
		consensus bool
	}{
		{"consensus reason sets flag", council.ReasonConsensus, true},
		{"iteration limit does not", council.ReasonIterationLimit, false},
		{"judged does not", council.ReasonJudged, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState()
			s.SetOutput("risk", council.EvaluatorOutput{EvaluatorName: "risk", Verdict: council.VerdictApprove, Confidence: 0.9})
			s.Round = 2
			s.Decision = &council.TerminationVerdict{Action: council.ActionTerminate, Reason: tt.reason}

			final := s.Finalize()
			if s.Phase != council.PhaseFinalized {
				t.Fatalf("phase = %q, want finalized", s.Phase)
			}
			if final.Consensus != tt.consensus {
				t.Fatalf("consensus = %v, want %v", final.Consensus, tt.consensus)
			}
			if final.Rounds != 3 {
				t.Fatalf("rounds = %d, want 3", final.Rounds)
			}
		})
	}
}
