// Package judge defines the judgment collaborator port consulted by the
// termination policy's judgment strategy.
package judge

import (
	"context"

	"github.com/quorumfin/council/internal/domain/council"
)

// Judge reviews a round summary and decides whether the debate should
// continue. The collaborator is optional and must not be assumed idempotent
// or deterministic; callers fall back to rule-based termination when it is
// absent, errors, or returns an unparseable decision.
type Judge interface {
	Judge(ctx context.Context, summary council.JudgeSummary) (council.JudgeDecision, error)
}
