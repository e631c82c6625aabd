package orchestrator

import (
	"context"
	"time"

	"github.com/ma-za-kpe/vibejudge/agentrt"
	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// defaultExpectedInputTokens is the per-agent input token expectation
// used when no historical per-submission mean has been recorded yet
// (spec §4.1 step 3: "use historical per-token means if available,
// else defaults"). VibeJudge does not yet track a historical mean per
// (hackathon, agent) pair, so every estimate uses this default; see
// DESIGN.md's Open Question decision for this choice.
const defaultExpectedInputTokens = 60000

// loadHackathon reads a hackathon's META item.
func (o *Orchestrator) loadHackathon(ctx context.Context, hackID string) (model.Hackathon, error) {
	item, err := o.Table.Get(ctx, store.HackPK(hackID), store.HackMetaSK())
	if err == store.ErrNotFound {
		return model.Hackathon{}, vjerr.New("orchestrator.loadHackathon", vjerr.CodeInput, "hackathon not found").WithCause(err)
	}
	if err != nil {
		return model.Hackathon{}, vjerr.New("orchestrator.loadHackathon", vjerr.CodeTransient, "failed to read hackathon").WithCause(err)
	}
	hack, _ := item.Attributes[valueKey].(model.Hackathon)
	return hack, nil
}

// selectSubmissions implements spec §4.1 step 2: submissionIDs if
// given, else every submission in status pending; if forceReanalysis,
// completed submissions are included too.
func (o *Orchestrator) selectSubmissions(ctx context.Context, hackID string, submissionIDs []string, forceReanalysis bool) ([]model.Submission, error) {
	items, err := o.Table.Query(ctx, store.HackPK(hackID))
	if err != nil {
		return nil, vjerr.New("orchestrator.selectSubmissions", vjerr.CodeTransient, "failed to query submissions").WithCause(err)
	}

	wanted := make(map[string]bool, len(submissionIDs))
	for _, id := range submissionIDs {
		wanted[id] = true
	}

	var selected []model.Submission
	for _, item := range items {
		sub, ok := item.Attributes[valueKey].(model.Submission)
		if !ok {
			continue
		}
		if len(submissionIDs) > 0 {
			if wanted[sub.SubID] && sub.EligibleForAnalysis(forceReanalysis) {
				selected = append(selected, sub)
			}
			continue
		}
		if sub.EligibleForAnalysis(forceReanalysis) {
			selected = append(selected, sub)
		}
	}
	return selected, nil
}

// estimate implements spec §4.1 step 3's cost-range computation, shared
// by both EstimateCost and TriggerAnalysis's pre-flight.
func (o *Orchestrator) estimate(hack model.Hackathon, numSubmissions int) costs.Estimate {
	perAgentModel := make(map[model.AgentName]string, len(hack.AgentsEnabled))
	perAgentExpected := make(map[model.AgentName]costs.ExpectedTokens, len(hack.AgentsEnabled))
	for _, agent := range hack.AgentsEnabled {
		desc, ok := agentrt.DefaultDescriptors[agent]
		if !ok {
			continue
		}
		perAgentModel[agent] = desc.ModelID
		perAgentExpected[agent] = costs.ExpectedTokens{
			InputTokens:  defaultExpectedInputTokens,
			OutputTokens: int64(desc.MaxOutputTokens),
		}
	}
	return costs.EstimateJob(o.Rates, numSubmissions, perAgentModel, perAgentExpected)
}

// EstimateCost is a pure read: spec §4.1's "same budget math as
// trigger" without any of the gating or mutation TriggerAnalysis
// performs.
func (o *Orchestrator) EstimateCost(ctx context.Context, hackID string, submissionIDs []string) (costs.Estimate, error) {
	hack, err := o.loadHackathon(ctx, hackID)
	if err != nil {
		return costs.Estimate{}, err
	}
	subs, err := o.selectSubmissions(ctx, hackID, submissionIDs, false)
	if err != nil {
		return costs.Estimate{}, err
	}
	return o.estimate(hack, len(subs)), nil
}

// currentSpend reads the hackathon's running cost total, 0 if none
// has been recorded yet.
func (o *Orchestrator) currentSpend(ctx context.Context, hackID string) (float64, error) {
	item, err := o.Table.Get(ctx, store.HackPK(hackID), store.CostSummarySK())
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, vjerr.New("orchestrator.currentSpend", vjerr.CodeTransient, "failed to read cost summary").WithCause(err)
	}
	summary, _ := item.Attributes[valueKey].(model.HackathonCostSummary)
	return summary.TotalCostUSD, nil
}

// TriggerResult is what TriggerAnalysis returns on success.
type TriggerResult struct {
	JobID            string
	Estimate         costs.Estimate
	EstimatedSubmissions int
}

// TriggerAnalysis runs spec §4.1's full pre-flight sequence in order,
// aborting before any state mutation on the first failing step, then
// creates the AnalysisJob and hands execution to run (see execute.go).
// callerOrgID is the organizer id attached to the caller's credential.
func (o *Orchestrator) TriggerAnalysis(ctx context.Context, callerOrgID, hackID string, submissionIDs []string, forceReanalysis bool) (TriggerResult, error) {
	hack, err := o.loadHackathon(ctx, hackID)
	if err != nil {
		return TriggerResult{}, err
	}

	// Step 1: owner check.
	if hack.OrgID != callerOrgID {
		return TriggerResult{}, vjerr.New("orchestrator.TriggerAnalysis", vjerr.CodeInput, "caller is not the owning organizer").WithCause(vjerr.ErrNotOwner)
	}

	// Step 2: select submissions.
	subs, err := o.selectSubmissions(ctx, hackID, submissionIDs, forceReanalysis)
	if err != nil {
		return TriggerResult{}, err
	}
	if len(subs) == 0 {
		return TriggerResult{}, vjerr.New("orchestrator.TriggerAnalysis", vjerr.CodeState, "no submissions eligible for analysis").WithCause(vjerr.ErrNoPendingSubmissions)
	}

	// Step 3: cost estimate.
	est := o.estimate(hack, len(subs))

	// Step 4: budget gate.
	if hack.BudgetLimitUSD != nil {
		spend, err := o.currentSpend(ctx, hackID)
		if err != nil {
			return TriggerResult{}, err
		}
		exceeds, err := o.Policy.ExceedsBudget(spend, est.HighUSD, *hack.BudgetLimitUSD)
		if err != nil {
			return TriggerResult{}, vjerr.New("orchestrator.TriggerAnalysis", vjerr.CodeTransient, "budget policy evaluation failed").WithCause(err)
		}
		if exceeds {
			return TriggerResult{}, vjerr.New("orchestrator.TriggerAnalysis", vjerr.CodeState, "estimated cost would exceed budget limit").WithCause(vjerr.ErrBudgetExceeded)
		}
	}

	// Step 5: atomic concurrency gate.
	if err := o.Gate.TryOpen(ctx, hackID); err != nil {
		return TriggerResult{}, err
	}

	// Step 6: create the job and enqueue work. The gate is held from
	// here until run() closes it on the job's terminal transition.
	jobID, err := o.IDs.Generate("job")
	if err != nil {
		_ = o.Gate.Close(ctx, hackID, model.AnalysisFailed)
		return TriggerResult{}, vjerr.New("orchestrator.TriggerAnalysis", vjerr.CodeTransient, "failed to generate job id").WithCause(err)
	}

	now := time.Now()
	job := model.AnalysisJob{
		JobID:     jobID,
		HackID:    hackID,
		Status:    model.JobQueued,
		Total:     len(subs),
		StartedAt: &now,
	}
	if err := o.putJob(ctx, job); err != nil {
		_ = o.Gate.Close(ctx, hackID, model.AnalysisFailed)
		return TriggerResult{}, err
	}

	go o.run(context.WithoutCancel(ctx), job, hack, subs)

	return TriggerResult{JobID: jobID, Estimate: est, EstimatedSubmissions: len(subs)}, nil
}
