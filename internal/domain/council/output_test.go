package council_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/quorumfin/council/internal/domain/council"
)

func validOutput() council.EvaluatorOutput {
	return council.EvaluatorOutput{
		EvaluatorName: "risk_analysis",
		Verdict:       council.VerdictApprove,
		Confidence:    0.9,
		KeyFindings:   []string{"exposure within cap"},
		Reasoning:     "nothing concerning",
		Metrics:       map[string]float64{"risk_score": 0.1},
	}
}

func TestOutputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*council.EvaluatorOutput)
		wantErr string
	}{
		{
			name:   "valid output",
			mutate: func(*council.EvaluatorOutput) {},
		},
		{
			name:    "empty evaluator name",
			mutate:  func(o *council.EvaluatorOutput) { o.EvaluatorName = "" },
			wantErr: "evaluator_name is empty",
		},
		{
			name:    "name does not match registry key",
			mutate:  func(o *council.EvaluatorOutput) { o.EvaluatorName = "someone_else" },
			wantErr: "does not match registry key",
		},
		{
			name:    "unknown verdict",
			mutate:  func(o *council.EvaluatorOutput) { o.Verdict = "MAYBE" },
			wantErr: "not one of APPROVE, MODIFY, REJECT",
		},
		{
			name:    "confidence above one",
			mutate:  func(o *council.EvaluatorOutput) { o.Confidence = 1.2 },
			wantErr: "outside [0.0, 1.0]",
		},
		{
			name:    "confidence below zero",
			mutate:  func(o *council.EvaluatorOutput) { o.Confidence = -0.1 },
			wantErr: "outside [0.0, 1.0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := validOutput()
			tt.mutate(&out)
			err := out.Validate("risk_analysis")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			var cerr *council.ContractError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ContractError, got %T", err)
			}
			if cerr.Evaluator != "risk_analysis" {
				t.Fatalf("contract error names %q, want risk_analysis", cerr.Evaluator)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOutputBoundaryConfidence(t *testing.T) {
	for _, c := range []float64{0.0, 1.0} {
		out := validOutput()
		out.Confidence = c
		if err := out.Validate("risk_analysis"); err != nil {
			t.Fatalf("confidence %v should be valid, got %v", c, err)
		}
	}
}

func TestOutputFromMap(t *testing.T) {
	m := map[string]any{
		"evaluator_name":  "market_analysis",
		"verdict":         "MODIFY",
		"confidence":      0.65,
		"key_findings":    []any{"bear trend"},
		"blocking_issues": []string{},
		"recommendations": []any{"wait for a pullback"},
		"reasoning":       "timing is poor",
		"metrics":         map[string]any{"entry_score": 0.4, "rounds": 2},
	}

	out, err := council.OutputFromMap(m, "market_analysis")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Verdict != council.VerdictModify {
		t.Fatalf("verdict = %q, want MODIFY", out.Verdict)
	}
	if len(out.KeyFindings) != 1 || out.KeyFindings[0] != "bear trend" {
		t.Fatalf("key findings = %v", out.KeyFindings)
	}
	if out.Metrics["rounds"] != 2 {
		t.Fatalf("metrics.rounds = %v, want 2", out.Metrics["rounds"])
	}
}

func TestOutputFromMapViolations(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
	}{
		{
			name: "missing verdict",
			m: map[string]any{
				"evaluator_name":  "x",
				"confidence":      0.5,
				"key_findings":    []string{},
				"blocking_issues": []string{},
				"recommendations": []string{},
			},
		},
		{
			name: "confidence is a string",
			m: map[string]any{
				"evaluator_name":  "x",
				"verdict":         "APPROVE",
				"confidence":      "high",
				"key_findings":    []string{},
				"blocking_issues": []string{},
				"recommendations": []string{},
			},
		},
		{
			name: "findings contain a non-string",
			m: map[string]any{
				"evaluator_name":  "x",
				"verdict":         "APPROVE",
				"confidence":      0.5,
				"key_findings":    []any{42},
				"blocking_issues": []string{},
				"recommendations": []string{},
			},
		},
		{
			name: "non-numeric metric",
			m: map[string]any{
				"evaluator_name":  "x",
				"verdict":         "APPROVE",
				"confidence":      0.5,
				"key_findings":    []string{},
				"blocking_issues": []string{},
				"recommendations": []string{},
				"metrics":         map[string]any{"score": "low"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := council.OutputFromMap(tt.m, "x")
			var cerr *council.ContractError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ContractError, got %v", err)
			}
		})
	}
}

func TestToMapCopiesSlices(t *testing.T) {
	out := validOutput()
	m := out.ToMap()

	findings, ok := m["key_findings"].([]string)
	if !ok || len(findings) != 1 {
		t.Fatalf("key_findings = %v", m["key_findings"])
	}
	findings[0] = "mutated"
	if out.KeyFindings[0] == "mutated" {
		t.Fatal("ToMap must copy slices, not alias them")
	}
}
