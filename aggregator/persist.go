package aggregator

import (
	"context"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// valueKey is the sole attribute key every item this package writes
// uses: the whole typed value, stored and retrieved as-is rather than
// flattened field-by-field, since store.Item.Attributes is already a
// Go-native map[string]any (no wire serialization boundary to cross
// for the in-memory Table, and a real DynamoDB-style client would
// marshal the attribute bag itself).
const valueKey = "value"

// Persist implements spec §4.4's ordered persistence fan-out for one
// completed submission:
//
//  1. write each AgentResult keyed by (sub_id, agent)
//  2. write each CostRecord keyed by (sub_id, agent)
//  3. write the SubmissionSummary keyed by (sub_id)
//  4. update the Submission with overall_score/total_cost_usd/
//     analysis_duration_ms/status=completed
//  5. additively merge the submission's total cost into the
//     hackathon's HackathonCostSummary
//
// Steps 3-4 must be read-after-write consistent for any caller that
// reads the submission's score next; step 5 may lag, so a failure
// there is reported as its own error rather than rolling back 1-4.
func Persist(ctx context.Context, table store.Table, sub model.Submission, results []model.AgentResult, costRecords []model.CostRecord, summary model.SubmissionSummary, analysisDurationMs int64) error {
	for _, r := range results {
		if err := putValue(ctx, table, store.SubPK(sub.SubID), store.ScoreSK(string(r.Agent)), r); err != nil {
			return vjerr.New("aggregator.Persist", vjerr.CodeTransient, "failed to write agent result").WithCause(err)
		}
	}

	for _, c := range costRecords {
		if err := putValue(ctx, table, store.SubPK(sub.SubID), store.CostSK(string(c.Agent)), c); err != nil {
			return vjerr.New("aggregator.Persist", vjerr.CodeTransient, "failed to write cost record").WithCause(err)
		}
	}

	var totalCost float64
	for _, c := range costRecords {
		totalCost += c.TotalCostUSD
	}
	summary.TotalCostUSD = totalCost
	summary.AnalysisDurationMs = analysisDurationMs

	if err := putValue(ctx, table, store.SubPK(sub.SubID), store.SummarySK(), summary); err != nil {
		return vjerr.New("aggregator.Persist", vjerr.CodeTransient, "failed to write submission summary").WithCause(err)
	}

	sub.Status = model.SubmissionCompleted
	sub.OverallScore = &summary.OverallScore
	sub.TotalCostUSD = &totalCost
	sub.AnalysisDurationMs = &analysisDurationMs
	if err := putValue(ctx, table, store.HackPK(sub.HackID), store.SubmissionSK(sub.SubID), sub); err != nil {
		return vjerr.New("aggregator.Persist", vjerr.CodeTransient, "failed to update submission").WithCause(err)
	}

	if err := MergeCostSummary(ctx, table, sub.HackID, costRecords); err != nil {
		return vjerr.New("aggregator.Persist", vjerr.CodeTransient, "failed to merge hackathon cost summary").WithCause(err)
	}

	return nil
}

// maxMergeAttempts bounds the optimistic-concurrency retry loop
// MergeCostSummary runs; spec §4.4 permits step 5 to lag but requires a
// retry-on-conflict loop rather than a silent clobber.
const maxMergeAttempts = 5

// MergeCostSummary additively folds records into hackID's running
// HackathonCostSummary via compare-and-swap: it reads the current
// summary, applies the merge, and writes back only if no concurrent
// writer has changed the summary since the read (compared by
// SubmissionsAnalyzed, the monotonically increasing field every merge
// bumps). On conflict it retries, re-reading the now-current value.
func MergeCostSummary(ctx context.Context, table store.Table, hackID string, records []model.CostRecord) error {
	if len(records) == 0 {
		return nil
	}

	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		current, found, err := getCostSummary(ctx, table, hackID)
		if err != nil {
			return err
		}
		if !found {
			current = model.HackathonCostSummary{HackID: hackID}
		}
		observedCount := current.SubmissionsAnalyzed
		current.MergeSubmission(records)

		item := store.Item{PK: store.HackPK(hackID), SK: store.CostSummarySK(), Attributes: map[string]any{valueKey: current}}
		err = table.ConditionalPut(ctx, item, func(existing store.Item, existed bool) bool {
			if !existed {
				return !found
			}
			existingSummary, ok := existing.Attributes[valueKey].(model.HackathonCostSummary)
			return ok && existingSummary.SubmissionsAnalyzed == observedCount
		})
		if err == nil {
			return nil
		}
		if err != store.ErrConditionFailed {
			return err
		}
	}
	return vjerr.New("aggregator.MergeCostSummary", vjerr.CodeTransient, "exceeded retry budget for cost summary merge")
}

func getCostSummary(ctx context.Context, table store.Table, hackID string) (model.HackathonCostSummary, bool, error) {
	item, err := table.Get(ctx, store.HackPK(hackID), store.CostSummarySK())
	if err == store.ErrNotFound {
		return model.HackathonCostSummary{}, false, nil
	}
	if err != nil {
		return model.HackathonCostSummary{}, false, err
	}
	summary, _ := item.Attributes[valueKey].(model.HackathonCostSummary)
	return summary, true, nil
}

func putValue(ctx context.Context, table store.Table, pk, sk string, v any) error {
	return table.Put(ctx, store.Item{PK: pk, SK: sk, Attributes: map[string]any{valueKey: v}})
}
