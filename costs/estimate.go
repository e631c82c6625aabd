package costs

import "github.com/ma-za-kpe/vibejudge/model"

// Estimate is a cost range, the shape TriggerAnalysis and EstimateCost
// both return (spec §4.1 step 3).
type Estimate struct {
	LowUSD      float64
	ExpectedUSD float64
	HighUSD     float64
}

// estimateSpread are the multipliers applied to the expected cost to
// derive the low/high range, fixed by the scoring design.
const (
	lowMultiplier  = 0.7
	highMultiplier = 1.5
)

// ExpectedTokens is the historical or default per-agent token
// expectation used to price a not-yet-run submission.
type ExpectedTokens struct {
	InputTokens  int64
	OutputTokens int64
}

// EstimateJob computes the cost range for running agents against
// submissions, given each (agent, model) pairing's expected token usage
// and the rate table. The expected cost is the literal sum described in
// spec §4.1 step 3: Σ over submissions Σ over agents of
// (expected_input_tokens × input_rate + expected_output_tokens ×
// output_rate); low/high are expected × (0.7, 1.5).
func EstimateJob(rt RateTable, numSubmissions int, perAgentModel map[model.AgentName]string, perAgentExpected map[model.AgentName]ExpectedTokens) Estimate {
	var expected float64
	for agent, modelID := range perAgentModel {
		rate := rt.rates[modelID]
		exp := perAgentExpected[agent]
		perSubmission := float64(exp.InputTokens)*rate.InputPerToken + float64(exp.OutputTokens)*rate.OutputPerToken
		expected += perSubmission * float64(numSubmissions)
	}

	return Estimate{
		LowUSD:      expected * lowMultiplier,
		ExpectedUSD: expected,
		HighUSD:     expected * highMultiplier,
	}
}
