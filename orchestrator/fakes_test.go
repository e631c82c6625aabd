package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/model"
)

var (
	errAnalysisInProgress = errors.New("fake gate: analysis already in progress")
	errAgentFailed        = errors.New("fake agent: evaluation failed")
)

// fakeGate is an in-memory stand-in for store/gate.Gate, since the
// production gate requires a live etcd connection.
type fakeGate struct {
	mu     sync.Mutex
	status map[string]model.AnalysisStatus
	denyErr error
}

func newFakeGate() *fakeGate {
	return &fakeGate{status: make(map[string]model.AnalysisStatus)}
}

func (g *fakeGate) TryOpen(_ context.Context, hackID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.denyErr != nil {
		return g.denyErr
	}
	status, ok := g.status[hackID]
	if ok && !status.GateOpen() {
		return errAnalysisInProgress
	}
	g.status[hackID] = model.AnalysisInProgress
	return nil
}

func (g *fakeGate) Close(_ context.Context, hackID string, status model.AnalysisStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[hackID] = status
	return nil
}

// fakeExtractor returns a canned RepoContext or error per submission id.
type fakeExtractor struct {
	mu         sync.Mutex
	repo       model.RepoContext
	err        error
	failForSub map[string]error
	calls      int
}

func (f *fakeExtractor) Extract(_ context.Context, _, subID string) (model.RepoContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failForSub != nil {
		if err, ok := f.failForSub[subID]; ok {
			return model.RepoContext{}, err
		}
	}
	return f.repo, f.err
}

// fakeAgents returns a canned AgentResult per agent, or an error for
// agents listed in FailFor.
type fakeAgents struct {
	mu      sync.Mutex
	ScoreFn func(agent model.AgentName) float64
	FailFor map[model.AgentName]bool
	calls   int
}

func (f *fakeAgents) Evaluate(_ context.Context, subID, hackID string, agent model.AgentName, _ model.RepoContext, _ model.AIPolicyMode, _ model.Rubric, tracker *costs.Tracker) (model.AgentResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.FailFor[agent] {
		return model.AgentResult{}, errAgentFailed
	}
	score := 7.0
	if f.ScoreFn != nil {
		score = f.ScoreFn(agent)
	}
	if tracker != nil {
		tracker.Add(model.CostRecord{SubID: subID, HackID: hackID, Agent: agent, ModelID: "fake-model", TotalCostUSD: 0.01})
	}
	return model.AgentResult{Agent: agent, OverallScore: score, Confidence: 0.9}, nil
}
