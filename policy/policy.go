// Package policy evaluates VibeJudge's two data-driven rule surfaces —
// the orchestrator's budget gate (spec §4.1 step 4) and the agent
// runtime's ai_policy_mode interpretation (spec §4.3 step 8) — as CEL
// expressions rather than hardcoded Go conditionals.
//
// google/cel-go is declared in the donor SDK's go.mod but never
// imported anywhere in its source (confirmed by a repo-wide grep); this
// package is its first real usage. The rules are expression strings
// (DefaultBudgetGateExpr, AIPolicyFlagExprs) defined in this package;
// vjconfig has no option that replaces them.
package policy

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
)

// Evaluator compiles and caches CEL programs against a fixed variable
// environment covering both rule surfaces.
type Evaluator struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewEvaluator builds an Evaluator declaring every variable either rule
// surface's expressions may reference.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("current_spend", cel.DoubleType),
		cel.Variable("estimate_high", cel.DoubleType),
		cel.Variable("budget_limit", cel.DoubleType),
		cel.Variable("indicator_score", cel.DoubleType),
		cel.Variable("policy_mode", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to build CEL environment: %w", err)
	}
	return &Evaluator{env: env, programs: make(map[string]cel.Program)}, nil
}

// Evaluate compiles expr — caching the compiled program by its exact
// text, since the same handful of expressions are evaluated on every
// TriggerAnalysis and every ai_detection result — and runs it against
// vars.
func (e *Evaluator) Evaluate(expr string, vars map[string]any) (ref.Val, error) {
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("policy: evaluation failed for %q: %w", expr, err)
	}
	return out, nil
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, ok := e.programs[expr]; ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("policy: failed to compile %q: %w", expr, issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to plan program for %q: %w", expr, err)
	}
	e.programs[expr] = prg
	return prg, nil
}

func asBool(v ref.Val, expr string) (bool, error) {
	b, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("policy: expression %q did not evaluate to a bool", expr)
	}
	return b, nil
}
