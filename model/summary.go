package model

// Recommendation is the discrete classification of a submission derived
// from its aggregated 0-10 score.
type Recommendation string

const (
	RecommendationStrongContender  Recommendation = "strong_contender"
	RecommendationSolidSubmission  Recommendation = "solid_submission"
	RecommendationNeedsImprovement Recommendation = "needs_improvement"
	RecommendationConcernsFlagged  Recommendation = "concerns_flagged"
)

// ClassifyRecommendation maps a 0-10 aggregated score to a
// Recommendation using the thresholds fixed by the scoring design:
// strong_contender at 8.0, solid_submission at 6.5, needs_improvement
// at 4.5, concerns_flagged below that.
func ClassifyRecommendation(finalScore10 float64) Recommendation {
	switch {
	case finalScore10 >= 8.0:
		return RecommendationStrongContender
	case finalScore10 >= 6.5:
		return RecommendationSolidSubmission
	case finalScore10 >= 4.5:
		return RecommendationNeedsImprovement
	default:
		return RecommendationConcernsFlagged
	}
}

// WeightedScore is one rubric dimension's contribution to a
// SubmissionSummary's aggregated score.
type WeightedScore struct {
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Note     string  `json:"note,omitempty"`
}

// SubmissionSummary is the aggregated, rubric-weighted scorecard for
// one submission, the final artifact of the aggregator.
type SubmissionSummary struct {
	SubID              string                     `json:"sub_id"`
	HackID             string                     `json:"hack_id"`
	TeamName           string                     `json:"team_name"`
	WeightedScores     map[string]WeightedScore   `json:"weighted_scores"`
	OverallScore       float64                    `json:"overall_score"`
	AgentScores        map[AgentName]float64      `json:"agent_scores"`
	Confidence         float64                    `json:"confidence"`
	Recommendation     Recommendation             `json:"recommendation"`
	Strengths          []string                   `json:"strengths"`
	Weaknesses         []string                   `json:"weaknesses"`
	TotalCostUSD       float64                    `json:"total_cost_usd"`
	AnalysisDurationMs int64                      `json:"analysis_duration_ms"`
}
