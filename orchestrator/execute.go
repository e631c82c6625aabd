package orchestrator

import (
	"context"
	"time"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjlog"
)

// submissionOutcome is what a per-submission worker reports back to
// the single job-progress writer; spec §4.1: "workers report
// completion through a channel/queue, not direct writes."
type submissionOutcome struct {
	subID string
	err   error
}

// run executes job over subs with bounded parallelism W_subs (spec
// §4.1's execution section), using the same semaphore channel runAgents
// uses for W_agents; in place of a sync.WaitGroup it waits by reading
// exactly len(subs) outcomes off outcomeCh. It is launched as a
// detached goroutine by TriggerAnalysis (the caller's ctx has already
// returned a response to the triggering request); it owns job's
// progress fields exclusively, consuming outcomes off outcomeCh rather
// than letting submission workers write job state directly.
func (o *Orchestrator) run(ctx context.Context, job model.AnalysisJob, hack model.Hackathon, subs []model.Submission) {
	logger := vjlog.FromContext(ctx).With("job_id", job.JobID, "hack_id", hack.HackID)

	job.Status = model.JobRunning
	_ = o.putJob(ctx, job)

	maxConcurrency := o.Config.MaxConcurrentSubmissions
	if maxConcurrency <= 0 || maxConcurrency > len(subs) {
		maxConcurrency = len(subs)
	}
	sem := make(chan struct{}, maxConcurrency)
	outcomeCh := make(chan submissionOutcome, len(subs))

	for _, sub := range subs {
		go func(sub model.Submission) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomeCh <- submissionOutcome{subID: sub.SubID, err: ctx.Err()}
				return
			}
			err := o.runSubmission(ctx, hack, sub)
			outcomeCh <- submissionOutcome{subID: sub.SubID, err: err}
		}(sub)
	}

	for i := 0; i < len(subs); i++ {
		outcome := <-outcomeCh
		if outcome.err != nil {
			job.Failed++
			job.ErrorLog = append(job.ErrorLog, model.JobErrorEntry{
				SubID:   outcome.subID,
				Message: outcome.err.Error(),
				At:      time.Now(),
			})
			logger.Warn("submission failed", "sub_id", outcome.subID, "error", outcome.err)
		} else {
			job.Completed++
		}
		_ = o.putJob(ctx, job)
	}

	now := time.Now()
	job.CompletedAt = &now
	finalStatus := model.AnalysisComplete
	if job.AllFailed() {
		job.Status = model.JobFailed
		finalStatus = model.AnalysisFailed
	} else {
		job.Status = model.JobCompleted
	}
	_ = o.putJob(ctx, job)

	if err := o.Gate.Close(ctx, hack.HackID, finalStatus); err != nil {
		logger.Warn("failed to close concurrency gate", "error", err)
	}
	logger.Info("job finished", "status", job.Status, "completed", job.Completed, "failed", job.Failed)
}
