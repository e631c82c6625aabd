package policy

import "github.com/ma-za-kpe/vibejudge/model"

// AIPolicyFlagExprs maps each ai_policy_mode to the CEL expression
// deciding whether an ai_detection result's ai_generation_indicators
// sub-score should raise model.FlagAIPolicyReview. Per spec §4.3 step
// 8, the numeric score itself is never transformed by policy mode —
// only the review threshold shifts: a hackathon run in full_vibe mode
// expects heavy AI assistance and never flags it, while traditional
// mode flags even moderate indicators.
var AIPolicyFlagExprs = map[model.AIPolicyMode]string{
	model.PolicyFullVibe:     "false",
	model.PolicyAIAssisted:   "indicator_score > 8.0",
	model.PolicyTraditional:  "indicator_score > 3.0",
	model.PolicyCustom:       "indicator_score > 5.0",
}

// ShouldFlagAIIndicators evaluates mode's configured rule against an
// ai_detection result's indicatorScore (its ai_generation_indicators
// sub-score). An unrecognized mode falls back to the custom threshold
// rather than silently never flagging.
func (e *Evaluator) ShouldFlagAIIndicators(mode model.AIPolicyMode, indicatorScore float64) (bool, error) {
	expr, ok := AIPolicyFlagExprs[mode]
	if !ok {
		expr = AIPolicyFlagExprs[model.PolicyCustom]
	}
	out, err := e.Evaluate(expr, map[string]any{
		"indicator_score": indicatorScore,
		"policy_mode":     string(mode),
	})
	if err != nil {
		return false, err
	}
	return asBool(out, expr)
}
