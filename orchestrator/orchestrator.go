// Package orchestrator implements the Job Scheduler (spec §4.1): the
// pre-flight checks that gate a TriggerAnalysis call, and the
// bounded-parallelism execution that runs the per-submission pipeline
// across a job's selected submissions.
package orchestrator

import (
	"context"

	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/ids"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/policy"
	"github.com/ma-za-kpe/vibejudge/queue"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/vjconfig"
)

// Gate is the atomic analysis_status concurrency gate's interface as
// seen by the orchestrator. store/gate.Gate is the production
// implementation (etcd-backed); tests use an in-memory fake, since the
// donor's own etcd-backed registry package carries no unit tests for
// its transaction path either.
type Gate interface {
	TryOpen(ctx context.Context, hackID string) error
	Close(ctx context.Context, hackID string, status model.AnalysisStatus) error
}

// RepoExtractor is the subset of extractor.Extractor the orchestrator
// depends on. Defined here, at the point of use, so tests can supply a
// fake that never touches a real git binary.
type RepoExtractor interface {
	Extract(ctx context.Context, repoURL, submissionID string) (model.RepoContext, error)
}

// AgentEvaluator is the subset of agentrt.Runtime the orchestrator
// depends on.
type AgentEvaluator interface {
	Evaluate(ctx context.Context, subID, hackID string, agent model.AgentName, repo model.RepoContext, policyMode model.AIPolicyMode, rubric model.Rubric, tracker *costs.Tracker) (model.AgentResult, error)
}

// ProgressPublisher reports per-agent completion events through a
// channel/queue rather than direct writes (spec §4.1: "workers report
// completion through a channel/queue, not direct writes"). queue.Client
// satisfies it. Nil disables progress reporting entirely, which is what
// every in-process test uses since they never stand up a real Redis.
type ProgressPublisher interface {
	Publish(ctx context.Context, channel string, result queue.Result) error
}

// Orchestrator wires together the store, concurrency gate, extractor,
// and agent runtime into the TriggerAnalysis/GetJob/EstimateCost
// operations spec §4.1 names.
type Orchestrator struct {
	Table     store.Table
	Gate      Gate
	Extractor RepoExtractor
	Agents    AgentEvaluator
	Rates     costs.RateTable
	IDs       ids.Generator
	Config    vjconfig.Config
	Policy    *policy.Evaluator
	Progress  ProgressPublisher
}

// New builds an Orchestrator from its dependencies. progress may be nil
// to disable per-agent completion reporting (see ProgressPublisher).
func New(table store.Table, gate Gate, extractor RepoExtractor, agents AgentEvaluator, rates costs.RateTable, idGen ids.Generator, cfg vjconfig.Config, pol *policy.Evaluator, progress ProgressPublisher) *Orchestrator {
	return &Orchestrator{
		Table:     table,
		Gate:      gate,
		Extractor: extractor,
		Agents:    agents,
		Rates:     rates,
		IDs:       idGen,
		Config:    cfg.ApplyDefaults(),
		Policy:    pol,
		Progress:  progress,
	}
}
