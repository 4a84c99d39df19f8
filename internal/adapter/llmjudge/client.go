// Package llmjudge implements the judge port against an OpenAI-compatible
// chat-completions endpoint.
package llmjudge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quorumfin/council/internal/config"
	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/resilience"
)

// Client calls a chat-completions API and parses the model's verdict on the
// debate. It implements judge.Judge.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	breaker     *resilience.Breaker
}

// NewClient creates a judge client from config. cfg.URL is the API base, e.g.
// https://api.openai.com/v1 or a local proxy.
func NewClient(cfg config.Judge) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type judgeReply struct {
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	Reasoning string `json:"reasoning"`
}

// Judge submits the round summary and parses the model's decision. The model
// must answer with a JSON object carrying action, reason, and reasoning; any
// other shape is an error and the caller falls back to rule-based termination.
func (c *Client) Judge(ctx context.Context, summary council.JudgeSummary) (council.JudgeDecision, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(summary)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return council.JudgeDecision{}, fmt.Errorf("marshal judge request: %w", err)
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		return council.JudgeDecision{}, err
	}

	var chat chatResponse
	if err := json.Unmarshal(resp, &chat); err != nil {
		return council.JudgeDecision{}, fmt.Errorf("unmarshal chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return council.JudgeDecision{}, fmt.Errorf("chat response has no choices")
	}

	reply, err := parseReply(chat.Choices[0].Message.Content)
	if err != nil {
		return council.JudgeDecision{}, err
	}

	return council.JudgeDecision{
		Action: council.Action(reply.Action),
		Reason: reply.Reason,
		Details: map[string]any{
			"reasoning": reply.Reasoning,
			"model":     c.model,
		},
	}, nil
}

// parseReply extracts the decision JSON from the model's text. Models often
// wrap the object in prose or code fences, so it scans for the outermost
// braces rather than requiring a bare object.
func parseReply(content string) (judgeReply, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return judgeReply{}, fmt.Errorf("no JSON object in judge reply: %q", content)
	}

	var reply judgeReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return judgeReply{}, fmt.Errorf("unmarshal judge reply: %w", err)
	}

	switch reply.Action {
	case string(council.ActionTerminate), string(council.ActionReiterate):
	default:
		return judgeReply{}, fmt.Errorf("judge reply action %q is not TERMINATE or REITERATE", reply.Action)
	}
	return reply, nil
}

func buildPrompt(summary council.JudgeSummary) string {
	var sb strings.Builder

	sb.WriteString("You are chairing an investment council debate. Decide whether the debate should:\n")
	sb.WriteString("- TERMINATE: the council has reached a usable conclusion\n")
	sb.WriteString("- REITERATE: more debate is needed to resolve contradictions or low confidence\n\n")

	profile, _ := json.Marshal(summary.Profile)
	candidate, _ := json.Marshal(summary.Candidate)
	fmt.Fprintf(&sb, "INVESTMENT CONTEXT:\nInvestor profile: %s\nAsset under evaluation: %s\n", profile, candidate)
	fmt.Fprintf(&sb, "Current round: %d of %d\n\n", summary.Round+1, summary.MaxRounds)

	sb.WriteString("EVALUATOR POSITIONS (read all reasoning carefully):\n")
	for _, e := range summary.Evaluations {
		fmt.Fprintf(&sb, "\n[%s]\nVerdict: %s | Confidence: %.2f\nReasoning: %s\n",
			e.Name, e.Verdict, e.Confidence, e.Reasoning)
		if e.Name == "devils_advocate" {
			sb.WriteString("(Weigh this critic's warnings explicitly.)\n")
		}
	}

	sb.WriteString("\nDECISION RULES:\n")
	sb.WriteString("1. Debate genuinely stalled with unresolved contradictions -> TERMINATE\n")
	sb.WriteString("2. Solvable concerns remain -> REITERATE\n")
	sb.WriteString("3. Conflicting verdicts with low overall confidence -> REITERATE\n")
	sb.WriteString("4. The critic raises unanswered critical risks -> REITERATE\n")
	sb.WriteString("5. Strong agreement and the critic is satisfied -> TERMINATE\n\n")

	sb.WriteString("Respond with ONLY valid JSON (no other text):\n")
	sb.WriteString(`{"action": "REITERATE" or "TERMINATE", "reason": "brief_reason", "reasoning": "detailed_explanation"}`)

	return sb.String()
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("judge API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
