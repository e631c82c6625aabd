package agentrt

import (
	"fmt"
	"math"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// reconciliationThreshold is the maximum allowed disagreement between a
// self-reported overall_score and the weighted recomputation from
// sub-scores before the recomputed value replaces it (spec §4.3 step
// 4).
const reconciliationThreshold = 2.0

// ValidateAndExtract implements spec §4.3 step 4: it requires every
// dimension the schema declares, silently drops unknown top-level keys
// (by simply never reading them), clamps scalar scores into [0,10],
// and reconciles overall_score against the recomputed sub-score
// average when the two disagree by more than reconciliationThreshold.
func ValidateAndExtract(raw rawAgentOutput, schema AgentSchema) (model.AgentResult, error) {
	rawScores, ok := raw["scores"].(map[string]any)
	if !ok {
		return model.AgentResult{}, vjerr.New("agentrt.ValidateAndExtract", vjerr.CodeData, "missing required field scores").WithCause(vjerr.ErrInvalidOutput)
	}

	scores := make(map[string]float64, len(schema.Dimensions))
	for _, dim := range schema.Dimensions {
		v, present := rawScores[dim]
		if !present {
			return model.AgentResult{}, vjerr.New("agentrt.ValidateAndExtract", vjerr.CodeData, fmt.Sprintf("missing required score dimension %q", dim)).WithCause(vjerr.ErrInvalidOutput)
		}
		f, ok := asFloat(v)
		if !ok {
			return model.AgentResult{}, vjerr.New("agentrt.ValidateAndExtract", vjerr.CodeData, fmt.Sprintf("score dimension %q is not numeric", dim)).WithCause(vjerr.ErrInvalidOutput)
		}
		scores[dim] = clampScore(f)
	}

	summary, _ := raw["summary"].(string)
	if summary == "" {
		return model.AgentResult{}, vjerr.New("agentrt.ValidateAndExtract", vjerr.CodeData, "missing required field summary").WithCause(vjerr.ErrInvalidOutput)
	}

	recomputed := averageOf(scores)
	overall := recomputed
	if v, present := raw["overall_score"]; present {
		if f, ok := asFloat(v); ok {
			f = clampScore(f)
			if math.Abs(f-recomputed) <= reconciliationThreshold {
				overall = f
			}
		}
	}

	confidence := 1.0
	if v, present := raw["confidence"]; present {
		if f, ok := asFloat(v); ok {
			confidence = clamp01(f)
		}
	}

	result := model.AgentResult{
		Agent:        schema.Agent,
		Scores:       scores,
		OverallScore: overall,
		Confidence:   confidence,
		Summary:      summary,
		Strengths:    asStringSlice(raw["strengths"]),
		Improvements: asStringSlice(raw["improvements"]),
		Evidence:     asEvidence(raw["evidence"]),
	}
	return result, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func asStringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asEvidence(v any) []model.Evidence {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.Evidence, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ev := model.Evidence{}
		ev.Finding, _ = m["finding"].(string)
		ev.File, _ = m["file"].(string)
		ev.Commit, _ = m["commit"].(string)
		ev.Category, _ = m["category"].(string)
		ev.Recommendation, _ = m["recommendation"].(string)
		if sev, ok := m["severity"].(string); ok {
			ev.Severity = model.EvidenceSeverity(sev)
		}
		if line, ok := asFloat(m["line"]); ok {
			ev.Line = int(line)
		}
		out = append(out, ev)
	}
	return out
}

func clampScore(v float64) float64 { return clamp01Range(v, 0, 10) }

func clamp01(v float64) float64 { return clamp01Range(v, 0, 1) }

func clamp01Range(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func averageOf(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}
