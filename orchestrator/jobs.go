package orchestrator

import (
	"context"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// valueKey is the attribute key every item this package reads or
// writes uses, matching the convention aggregator.Persist established:
// the whole typed Go value stored as-is rather than flattened
// field-by-field.
const valueKey = "value"

func (o *Orchestrator) putJob(ctx context.Context, job model.AnalysisJob) error {
	item := store.Item{
		PK:         store.HackPK(job.HackID),
		SK:         store.JobSK(job.JobID),
		GSI2PK:     store.JobStatusGSI2PK(string(job.Status)),
		GSI2SK:     job.JobID,
		Attributes: map[string]any{valueKey: job},
	}
	if job.Status.IsTerminal() {
		expires := job.CompletedAt
		if expires != nil {
			t := expires.Add(model.JobTTL)
			item.ExpiresAt = &t
		}
	}
	if err := o.Table.Put(ctx, item); err != nil {
		return vjerr.New("orchestrator.putJob", vjerr.CodeTransient, "failed to write job").WithCause(err)
	}
	return nil
}

// GetJob returns a job's progress snapshot (spec §4.1's GetJob
// operation).
func (o *Orchestrator) GetJob(ctx context.Context, hackID, jobID string) (model.AnalysisJob, error) {
	item, err := o.Table.Get(ctx, store.HackPK(hackID), store.JobSK(jobID))
	if err == store.ErrNotFound {
		return model.AnalysisJob{}, vjerr.New("orchestrator.GetJob", vjerr.CodeInput, "job not found").WithCause(err)
	}
	if err != nil {
		return model.AnalysisJob{}, vjerr.New("orchestrator.GetJob", vjerr.CodeTransient, "failed to read job").WithCause(err)
	}
	job, _ := item.Attributes[valueKey].(model.AnalysisJob)
	return job, nil
}
