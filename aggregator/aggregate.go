// Package aggregator implements the Score Aggregator: turning a set of
// successful AgentResults into a rubric-weighted SubmissionSummary, and
// persisting it with the ordered fan-out spec §4.4 mandates.
package aggregator

import (
	"math"

	"github.com/ma-za-kpe/vibejudge/model"
)

// agentPriority ranks agents for strengths/weaknesses ordering when
// severity/impact ties (spec §4.4: "innovation > performance >
// bug_hunter > ai_detection").
var agentPriority = map[model.AgentName]int{
	model.AgentInnovation:  0,
	model.AgentPerformance: 1,
	model.AgentBugHunter:   2,
	model.AgentAIDetection: 3,
}

// minSuccessfulAgents is the floor below which a submission is marked
// failed rather than aggregated (spec §4.3's failure policy).
const minSuccessfulAgents = 2

// unavailableNote is attached in place of an unavailable agent's
// contribution to a dimension (spec §4.3).
const unavailableNote = "agent unavailable"

// Aggregate implements spec §4.4's aggregation rules. results holds
// only the agents that succeeded; missing dimensions (whose agent did
// not produce a result) contribute a zero raw score. Aggregate does
// not itself enforce the minSuccessfulAgents floor — callers (the
// orchestrator) check that before invoking Aggregate, since the
// decision to mark a submission failed belongs to the pipeline, not to
// scoring.
func Aggregate(sub model.Submission, rubric model.Rubric, results []model.AgentResult) model.SubmissionSummary {
	byAgent := make(map[model.AgentName]model.AgentResult, len(results))
	for _, r := range results {
		byAgent[r.Agent] = r
	}

	weightedScores := make(map[string]model.WeightedScore, len(rubric.Dimensions))
	agentScores := make(map[model.AgentName]float64, len(byAgent))
	var finalScore10 float64
	var minConfidence = math.Inf(1)

	for _, dim := range rubric.Dimensions {
		agent := model.AgentName(dim.Agent)
		result, ok := byAgent[agent]
		raw := 0.0
		note := ""
		if ok {
			raw = result.OverallScore
		} else {
			note = unavailableNote
		}
		weighted := raw * dim.Weight
		weightedScores[dim.Name] = model.WeightedScore{Raw: raw, Weight: dim.Weight, Weighted: weighted, Note: note}
		finalScore10 += weighted
	}

	for agent, result := range byAgent {
		agentScores[agent] = result.OverallScore
		if result.Confidence < minConfidence {
			minConfidence = result.Confidence
		}
	}
	if math.IsInf(minConfidence, 1) {
		minConfidence = 0
	}

	overallScore100 := roundTo2(clampRange(finalScore10*10, 0, 100))

	var totalCost float64
	strengths, weaknesses := topStrengthsWeaknesses(results)

	return model.SubmissionSummary{
		SubID:          sub.SubID,
		HackID:         sub.HackID,
		TeamName:       sub.TeamName,
		WeightedScores: weightedScores,
		OverallScore:   overallScore100,
		AgentScores:    agentScores,
		Confidence:     minConfidence,
		Recommendation: model.ClassifyRecommendation(finalScore10),
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		TotalCostUSD:   totalCost, // filled in by Persist from CostRecords
	}
}

// EnoughAgentsSucceeded reports whether results meets the
// minSuccessfulAgents floor spec §4.3's failure policy requires before
// a submission may be aggregated rather than marked failed.
func EnoughAgentsSucceeded(results []model.AgentResult) bool {
	return len(results) >= minSuccessfulAgents
}

const topN = 3

// topStrengthsWeaknesses extracts the top 3 distinct strengths and
// weaknesses across results, ranked by agent priority (spec §4.4: "by
// severity/impact tag then by agent priority"; since AgentResult does
// not attach a per-strength severity tag, agent priority is the sole
// ranking key here, applied in the fixed innovation > performance >
// bug_hunter > ai_detection order), deduplicated by normalized text.
func topStrengthsWeaknesses(results []model.AgentResult) ([]string, []string) {
	ordered := make([]model.AgentResult, len(results))
	copy(ordered, results)
	sortByAgentPriority(ordered)

	return dedupeTopN(collect(ordered, func(r model.AgentResult) []string { return r.Strengths }), topN),
		dedupeTopN(collect(ordered, func(r model.AgentResult) []string { return r.Improvements }), topN)
}

func collect(results []model.AgentResult, pick func(model.AgentResult) []string) []string {
	var out []string
	for _, r := range results {
		out = append(out, pick(r)...)
	}
	return out
}

func sortByAgentPriority(results []model.AgentResult) {
	for i := 1; i < len(results); i++ {
		j := i
		for j > 0 && agentPriority[results[j-1].Agent] > agentPriority[results[j].Agent] {
			results[j-1], results[j] = results[j], results[j-1]
			j--
		}
	}
}

func dedupeTopN(items []string, n int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		key := normalize(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out
}

func normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '\t' || r == '\n':
			continue
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
