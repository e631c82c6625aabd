package policy

// DefaultBudgetGateExpr is spec §4.1 step 4's budget gate check,
// expressed as data: "if hackathon.budget_limit_usd set and
// (current_hackathon_spend + estimate_high) > limit, fail
// BudgetExceeded."
const DefaultBudgetGateExpr = "current_spend + estimate_high > budget_limit"

// ExceedsBudget evaluates DefaultBudgetGateExpr against the supplied
// figures, returning true if the orchestrator's budget gate should
// reject the trigger.
func (e *Evaluator) ExceedsBudget(currentSpend, estimateHigh, budgetLimit float64) (bool, error) {
	out, err := e.Evaluate(DefaultBudgetGateExpr, map[string]any{
		"current_spend": currentSpend,
		"estimate_high": estimateHigh,
		"budget_limit":  budgetLimit,
	})
	if err != nil {
		return false, err
	}
	return asBool(out, DefaultBudgetGateExpr)
}
