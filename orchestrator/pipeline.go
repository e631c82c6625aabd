package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ma-za-kpe/vibejudge/aggregator"
	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/queue"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/vjerr"
	"github.com/ma-za-kpe/vibejudge/vjlog"
)

// runSubmission is the per-submission pipeline spec §4.1/§4.3/§4.4
// describe: extract, evaluate every enabled agent concurrently,
// aggregate, and persist. It enforces the per-submission deadline
// D_sub and reports its outcome by returning an error (nil on success);
// the caller (execute.go's run) is responsible for job bookkeeping and
// failure isolation.
func (o *Orchestrator) runSubmission(ctx context.Context, hack model.Hackathon, sub model.Submission) error {
	subCtx, cancel := context.WithTimeout(ctx, o.Config.SubmissionDeadline())
	defer cancel()

	logger := vjlog.FromContext(ctx).With("sub_id", sub.SubID, "hack_id", hack.HackID)
	start := time.Now()

	sub.Status = model.SubmissionCloning
	if err := o.putSubmission(ctx, sub); err != nil {
		return err
	}

	var repo model.RepoContext
	err := retryWithBackoff(subCtx, func() error {
		var extractErr error
		repo, extractErr = o.Extractor.Extract(subCtx, sub.RepoURL, sub.SubID)
		return extractErr
	})
	if err != nil {
		logger.Warn("repository extraction failed", "error", err)
		return o.markFailed(ctx, sub, err)
	}

	sub.Status = model.SubmissionAnalyzing
	if err := o.putSubmission(ctx, sub); err != nil {
		return err
	}

	tracker := costs.NewTracker()
	results := o.runAgents(subCtx, hack, sub, repo, tracker)

	if subCtx.Err() != nil {
		return o.handleDeadline(ctx, sub, results, tracker, hack, start)
	}

	if !aggregator.EnoughAgentsSucceeded(results) {
		logger.Warn("too few agents succeeded", "succeeded", len(results))
		return o.markFailed(ctx, sub, vjerr.New("orchestrator.runSubmission", vjerr.CodeState, "fewer than 2 agents succeeded"))
	}

	summary := aggregator.Aggregate(sub, hack.Rubric, results)
	durationMs := time.Since(start).Milliseconds()
	if err := aggregator.Persist(ctx, o.Table, sub, results, tracker.Records(), summary, durationMs); err != nil {
		logger.Warn("persistence failed", "error", err)
		return o.markFailed(ctx, sub, err)
	}

	logger.Info("submission analysis complete", "overall_score", summary.OverallScore)
	return nil
}

// runAgents evaluates every enabled agent concurrently (spec §4.3:
// "agents within a submission run with parallelism W_agents, default =
// number of enabled agents"), reusing the semaphore-channel +
// sync.WaitGroup bounded-concurrency shape from the donor's
// CallToolsParallel (serve/callback_harness.go), sized here to the full
// agent count since that is the spec's stated default. A single
// agent's failure does not abort the others; it is logged and simply
// omitted from the returned results (spec §4.3's failure policy).
func (o *Orchestrator) runAgents(ctx context.Context, hack model.Hackathon, sub model.Submission, repo model.RepoContext, tracker *costs.Tracker) []model.AgentResult {
	agents := hack.AgentsEnabled
	sem := make(chan struct{}, len(agents))
	var wg sync.WaitGroup
	resultCh := make(chan model.AgentResult, len(agents))
	logger := vjlog.FromContext(ctx)

	for i, agent := range agents {
		wg.Add(1)
		go func(index int, agent model.AgentName) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			startedAt := time.Now()
			var result model.AgentResult
			err := retryWithBackoff(ctx, func() error {
				var evalErr error
				result, evalErr = o.Agents.Evaluate(ctx, sub.SubID, hack.HackID, agent, repo, hack.AIPolicyMode, hack.Rubric, tracker)
				return evalErr
			})
			completedAt := time.Now()
			if err != nil {
				logger.Warn("agent failed, continuing without it", "agent", agent, "error", err)
				o.publishProgress(ctx, sub.SubID, index, len(agents), agent, startedAt, completedAt, nil, err)
				return
			}
			o.publishProgress(ctx, sub.SubID, index, len(agents), agent, startedAt, completedAt, &result, nil)
			resultCh <- result
		}(i, agent)
	}

	wg.Wait()
	close(resultCh)

	results := make([]model.AgentResult, 0, len(agents))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// progressChannel names the pub/sub channel a submission's per-agent
// completion events are published on.
func progressChannel(subID string) string {
	return "vibejudge:submission:" + subID + ":progress"
}

// publishProgress reports one agent's completion (success or failure)
// through o.Progress (spec §4.1: "workers report completion through a
// channel/queue, not direct writes"), rather than the caller reading
// runAgents' return value directly. A nil o.Progress is the common case
// in tests and simply skips reporting; a publish error is logged and
// swallowed, since progress reporting is observational and must never
// fail the submission pipeline itself.
func (o *Orchestrator) publishProgress(ctx context.Context, subID string, index, total int, agent model.AgentName, startedAt, completedAt time.Time, result *model.AgentResult, evalErr error) {
	if o.Progress == nil {
		return
	}

	r := queue.Result{
		JobID:       subID,
		Index:       index,
		OutputType:  "vibejudge.agent.v1.EvaluateResponse",
		WorkerID:    string(agent),
		StartedAt:   startedAt.UnixMilli(),
		CompletedAt: completedAt.UnixMilli(),
	}
	if evalErr != nil {
		r.Error = evalErr.Error()
	} else if result != nil {
		if data, err := json.Marshal(result); err == nil {
			r.OutputJSON = string(data)
		}
	}

	logger := vjlog.FromContext(ctx)
	if err := o.Progress.Publish(ctx, progressChannel(subID), r); err != nil {
		logger.Warn("failed to publish agent progress", "sub_id", subID, "agent", agent, "index", index, "total", total, "error", err)
	}
}

// handleDeadline implements spec §4.1's "on deadline, mark timeout,
// persist a partial summary only if >=1 agent succeeded, else failed."
func (o *Orchestrator) handleDeadline(ctx context.Context, sub model.Submission, results []model.AgentResult, tracker *costs.Tracker, hack model.Hackathon, start time.Time) error {
	if len(results) == 0 {
		sub.Status = model.SubmissionTimeout
		return o.markFailed(ctx, sub, vjerr.New("orchestrator.runSubmission", vjerr.CodeDeadline, "submission deadline exceeded with no agent results"))
	}

	summary := aggregator.Aggregate(sub, hack.Rubric, results)
	durationMs := time.Since(start).Milliseconds()
	sub.Status = model.SubmissionTimeout
	if err := aggregator.Persist(ctx, o.Table, sub, results, tracker.Records(), summary, durationMs); err != nil {
		return o.markFailed(ctx, sub, err)
	}
	return vjerr.New("orchestrator.runSubmission", vjerr.CodeDeadline, "submission deadline exceeded, partial summary persisted")
}

// putSubmission writes sub's current status, used for the
// cloning/analyzing transitional states the pipeline reports as it
// progresses (not the terminal completed/failed/timeout states, which
// aggregator.Persist and markFailed own).
func (o *Orchestrator) putSubmission(ctx context.Context, sub model.Submission) error {
	item := store.Item{PK: store.HackPK(sub.HackID), SK: store.SubmissionSK(sub.SubID), Attributes: map[string]any{valueKey: sub}}
	if err := o.Table.Put(ctx, item); err != nil {
		return vjerr.New("orchestrator.putSubmission", vjerr.CodeTransient, "failed to write submission status").WithCause(err)
	}
	return nil
}

// markFailed records sub as failed (or whatever terminal status is
// already set on it, e.g. timeout) and appends the error to the
// caller's job error log via the returned error; execute.go's run is
// responsible for that bookkeeping.
func (o *Orchestrator) markFailed(ctx context.Context, sub model.Submission, cause error) error {
	if sub.Status != model.SubmissionTimeout {
		sub.Status = model.SubmissionFailed
	}
	if err := o.putSubmission(ctx, sub); err != nil {
		return err
	}
	return cause
}
