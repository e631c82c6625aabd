package costs

import (
	"sync"
	"testing"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjconfig"
	"github.com/stretchr/testify/assert"
)

func TestRateTable_Compute(t *testing.T) {
	rt := NewRateTable(map[string]vjconfig.ModelRate{
		"claude-3-sonnet": {InputPerToken: 0.000003, OutputPerToken: 0.000015},
	})

	record := rt.Compute("sub1", "hack1", model.AgentBugHunter, "claude-3-sonnet", Usage{
		InputTokens:  1000,
		OutputTokens: 500,
		LatencyMs:    1200,
	})

	assert.InDelta(t, 0.003, record.InputCostUSD, 1e-9)
	assert.InDelta(t, 0.0075, record.OutputCostUSD, 1e-9)
	assert.InDelta(t, 0.0105, record.TotalCostUSD, 1e-9)
	assert.Equal(t, int64(1200), record.LatencyMs)
}

func TestRateTable_Compute_UnknownModelIsZeroCost(t *testing.T) {
	rt := NewRateTable(nil)
	record := rt.Compute("sub1", "hack1", model.AgentBugHunter, "unknown-model", Usage{InputTokens: 100, OutputTokens: 100})
	assert.Equal(t, 0.0, record.TotalCostUSD)
}

func TestTracker_ConcurrentAdd_SerializesWrites(t *testing.T) {
	tracker := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add(model.CostRecord{TotalCostUSD: 1.0})
		}()
	}
	wg.Wait()

	assert.Len(t, tracker.Records(), 50)
	assert.Equal(t, 50.0, tracker.Total())
}

func TestEstimateJob_RangeMultipliers(t *testing.T) {
	rt := NewRateTable(map[string]vjconfig.ModelRate{
		"m": {InputPerToken: 0.01, OutputPerToken: 0.02},
	})

	est := EstimateJob(rt, 2,
		map[model.AgentName]string{model.AgentBugHunter: "m"},
		map[model.AgentName]ExpectedTokens{model.AgentBugHunter: {InputTokens: 100, OutputTokens: 100}},
	)

	// per submission: 100*0.01 + 100*0.02 = 3.0; times 2 submissions = 6.0
	assert.InDelta(t, 6.0, est.ExpectedUSD, 1e-9)
	assert.InDelta(t, 4.2, est.LowUSD, 1e-9)
	assert.InDelta(t, 9.0, est.HighUSD, 1e-9)
}
