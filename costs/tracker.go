// Package costs computes per-call CostRecords from a model rate table
// and tracks the running token/dollar totals for one submission's
// in-flight analysis.
//
// Tracker is the "one mutable in-submission resource" spec §5 calls out:
// agents run concurrently against a shared read-only RepoContext, but
// every agent's cost must serialize through one accumulator.
package costs

import (
	"sync"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjconfig"
)

// Usage is the raw token/latency counts a Converse call reports.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	LatencyMs    int64
	ServiceTier  model.ServiceTier
}

// RateTable resolves a model id to its per-token input/output cost,
// loaded from vjconfig.Config.ModelRates.
type RateTable struct {
	rates map[string]vjconfig.ModelRate
}

// NewRateTable builds a RateTable from configuration.
func NewRateTable(rates map[string]vjconfig.ModelRate) RateTable {
	return RateTable{rates: rates}
}

// Compute derives a CostRecord from one model call's usage. An unknown
// model id is treated as zero-cost rather than an error: cost accounting
// degrading gracefully is preferable to failing an otherwise-successful
// agent evaluation.
func (rt RateTable) Compute(subID, hackID string, agent model.AgentName, modelID string, u Usage) model.CostRecord {
	rate := rt.rates[modelID]

	inputCost := float64(u.InputTokens) * rate.InputPerToken
	outputCost := float64(u.OutputTokens) * rate.OutputPerToken

	return model.CostRecord{
		SubID:         subID,
		HackID:        hackID,
		Agent:         agent,
		ModelID:       modelID,
		InputTokens:   u.InputTokens,
		OutputTokens:  u.OutputTokens,
		InputCostUSD:  inputCost,
		OutputCostUSD: outputCost,
		TotalCostUSD:  inputCost + outputCost,
		LatencyMs:     u.LatencyMs,
		ServiceTier:   u.ServiceTier,
	}
}

// Tracker accumulates CostRecords for one submission's analysis,
// serializing concurrent writes from parallel agent goroutines.
type Tracker struct {
	mu      sync.Mutex
	records []model.CostRecord
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add records one agent's cost.
func (t *Tracker) Add(record model.CostRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, record)
}

// Records returns a copy of every recorded CostRecord.
func (t *Tracker) Records() []model.CostRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.CostRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Total returns the sum of TotalCostUSD across every recorded cost.
func (t *Tracker) Total() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total float64
	for _, r := range t.records {
		total += r.TotalCostUSD
	}
	return total
}
