package model

// ServiceTier identifies the model provider's service tier for a call,
// used to select the correct rate row when tiers have different pricing.
type ServiceTier string

// CostRecord is the immutable, per-agent, per-submission token and
// dollar accounting record derived from one model response.
type CostRecord struct {
	SubID         string      `json:"sub_id"`
	HackID        string      `json:"hack_id"`
	Agent         AgentName   `json:"agent"`
	ModelID       string      `json:"model_id"`
	InputTokens   int64       `json:"input_tokens"`
	OutputTokens  int64       `json:"output_tokens"`
	InputCostUSD  float64     `json:"input_cost_usd"`
	OutputCostUSD float64     `json:"output_cost_usd"`
	TotalCostUSD  float64     `json:"total_cost_usd"`
	LatencyMs     int64       `json:"latency_ms"`
	ServiceTier   ServiceTier `json:"service_tier"`
}

// HackathonCostSummary is the running cost aggregate over every
// submission analyzed in a hackathon. Updates to it must be additive
// merges, never overwrites, since submissions across a job complete
// and persist in no particular order.
type HackathonCostSummary struct {
	HackID                string             `json:"hack_id"`
	TotalCostUSD          float64            `json:"total_cost_usd"`
	CostByAgent           map[AgentName]float64 `json:"cost_by_agent"`
	CostByModel           map[string]float64    `json:"cost_by_model"`
	SubmissionsAnalyzed   int                `json:"submissions_analyzed"`
	AvgCostPerSubmission  float64            `json:"avg_cost_per_submission"`
	BudgetUtilization     float64            `json:"budget_utilization"`
}

// MergeSubmission additively folds the total cost of one completed
// submission's CostRecords into the summary and recomputes the average.
// This is the operation every submission worker calls independently; it
// must never clobber concurrent updates from other workers (see
// aggregator.Persist and store's conditional-update helper).
func (s *HackathonCostSummary) MergeSubmission(records []CostRecord) {
	if s.CostByAgent == nil {
		s.CostByAgent = make(map[AgentName]float64)
	}
	if s.CostByModel == nil {
		s.CostByModel = make(map[string]float64)
	}

	var subTotal float64
	for _, r := range records {
		s.TotalCostUSD += r.TotalCostUSD
		s.CostByAgent[r.Agent] += r.TotalCostUSD
		s.CostByModel[r.ModelID] += r.TotalCostUSD
		subTotal += r.TotalCostUSD
	}
	s.SubmissionsAnalyzed++
	if s.SubmissionsAnalyzed > 0 {
		s.AvgCostPerSubmission = s.TotalCostUSD / float64(s.SubmissionsAnalyzed)
	}
}
