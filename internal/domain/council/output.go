package council

import "fmt"

// EvaluatorOutput is the mandatory result shape every evaluator returns once
// per round. The loop reads only these fields; Metrics is evaluator-specific.
type EvaluatorOutput struct {
	EvaluatorName   string             `json:"evaluator_name"`
	Verdict         Verdict            `json:"verdict"`
	Confidence      float64            `json:"confidence"`
	KeyFindings     []string           `json:"key_findings"`
	BlockingIssues  []string           `json:"blocking_issues"`
	Recommendations []string           `json:"recommendations"`
	Reasoning       string             `json:"reasoning"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
}

// ContractError reports an evaluator output that violates the record model.
// It always names the offending evaluator; violations are never coerced.
type ContractError struct {
	Evaluator string
	Reason    string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("evaluator %q: contract violation: %s", e.Evaluator, e.Reason)
}

// Validate checks the output against the record model invariants. expected is
// the registry key the output was produced under; a mismatched EvaluatorName
// is a contract violation.
func (o *EvaluatorOutput) Validate(expected string) error {
	if o.EvaluatorName == "" {
		return &ContractError{Evaluator: expected, Reason: "evaluator_name is empty"}
	}
	if o.EvaluatorName != expected {
		return &ContractError{
			Evaluator: expected,
			Reason:    fmt.Sprintf("evaluator_name %q does not match registry key", o.EvaluatorName),
		}
	}
	if !o.Verdict.Valid() {
		return &ContractError{
			Evaluator: expected,
			Reason:    fmt.Sprintf("verdict %q is not one of APPROVE, MODIFY, REJECT", o.Verdict),
		}
	}
	if o.Confidence < 0.0 || o.Confidence > 1.0 {
		return &ContractError{
			Evaluator: expected,
			Reason:    fmt.Sprintf("confidence %v outside [0.0, 1.0]", o.Confidence),
		}
	}
	return nil
}

// ToMap converts the output to a plain keyed structure for transports and
// input views handed to externally written evaluators.
func (o *EvaluatorOutput) ToMap() map[string]any {
	return map[string]any{
		"evaluator_name":  o.EvaluatorName,
		"verdict":         string(o.Verdict),
		"confidence":      o.Confidence,
		"key_findings":    append([]string(nil), o.KeyFindings...),
		"blocking_issues": append([]string(nil), o.BlockingIssues...),
		"recommendations": append([]string(nil), o.Recommendations...),
		"reasoning":       o.Reasoning,
		"metrics":         copyMetrics(o.Metrics),
	}
}

// OutputFromMap builds a validated EvaluatorOutput from an untyped mapping,
// as returned by evaluators that cross a serialization boundary. expected is
// the registry key under which the output was produced.
func OutputFromMap(m map[string]any, expected string) (EvaluatorOutput, error) {
	var out EvaluatorOutput

	name, err := stringField(m, "evaluator_name", expected)
	if err != nil {
		return out, err
	}
	verdict, err := stringField(m, "verdict", expected)
	if err != nil {
		return out, err
	}
	confidence, err := floatField(m, "confidence", expected)
	if err != nil {
		return out, err
	}

	out.EvaluatorName = name
	out.Verdict = Verdict(verdict)
	out.Confidence = confidence
	if out.KeyFindings, err = stringListField(m, "key_findings", expected); err != nil {
		return out, err
	}
	if out.BlockingIssues, err = stringListField(m, "blocking_issues", expected); err != nil {
		return out, err
	}
	if out.Recommendations, err = stringListField(m, "recommendations", expected); err != nil {
		return out, err
	}
	if reasoning, ok := m["reasoning"]; ok {
		s, sok := reasoning.(string)
		if !sok {
			return out, &ContractError{Evaluator: expected, Reason: "reasoning is not a string"}
		}
		out.Reasoning = s
	}
	if out.Metrics, err = metricsField(m, expected); err != nil {
		return out, err
	}

	if err := out.Validate(expected); err != nil {
		return out, err
	}
	return out, nil
}

func stringField(m map[string]any, key, evaluator string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &ContractError{Evaluator: evaluator, Reason: "missing required field " + key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ContractError{Evaluator: evaluator, Reason: key + " is not a string"}
	}
	return s, nil
}

func floatField(m map[string]any, key, evaluator string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, &ContractError{Evaluator: evaluator, Reason: "missing required field " + key}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, &ContractError{Evaluator: evaluator, Reason: key + " is not a number"}
}

func stringListField(m map[string]any, key, evaluator string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, &ContractError{Evaluator: evaluator, Reason: "missing required field " + key}
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, sok := item.(string)
			if !sok {
				return nil, &ContractError{Evaluator: evaluator, Reason: key + " contains a non-string entry"}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &ContractError{Evaluator: evaluator, Reason: key + " is not a list of strings"}
}

func metricsField(m map[string]any, evaluator string) (map[string]float64, error) {
	v, ok := m["metrics"]
	if !ok || v == nil {
		return nil, nil
	}
	switch metrics := v.(type) {
	case map[string]float64:
		return copyMetrics(metrics), nil
	case map[string]any:
		out := make(map[string]float64, len(metrics))
		for k, raw := range metrics {
			switch n := raw.(type) {
			case float64:
				out[k] = n
			case int:
				out[k] = float64(n)
			default:
				return nil, &ContractError{Evaluator: evaluator, Reason: "metrics." + k + " is not numeric"}
			}
		}
		return out, nil
	}
	return nil, &ContractError{Evaluator: evaluator, Reason: "metrics is not a mapping"}
}

func copyMetrics(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
