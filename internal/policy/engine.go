// Package policy evaluates tool invocations against a Rego policy. The
// decision can force human gating for a tool beyond its registration flag,
// or block the call outright.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by Evaluate.
const (
	DecisionAllow           = "allow"
	DecisionRequireApproval = "require_approval"
	DecisionBlock           = "block"
)

// Engine is the prepared OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)
	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Evaluate returns the decision for one tool invocation. Input carries
// tool_name, args and thread_id. Missing or malformed results default to
// allow; the policy is advisory on top of the registry's own gating flag.
func (e *Engine) Evaluate(ctx context.Context, input any) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy gates the meeting scheduler and leaves everything else to
// the registry flags.
const DefaultPolicy = `
package tool_policy

default decision = "allow"

decision = "require_approval" {
	input.tool_name == "pick_meeting_time"
}
`
