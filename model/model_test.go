package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubric_Validate_WeightsMustSumToOne(t *testing.T) {
	r := Rubric{
		Dimensions: []RubricDimension{
			{Name: "code_quality", Weight: 0.5, Agent: string(AgentBugHunter)},
			{Name: "architecture", Weight: 0.4, Agent: string(AgentPerformance)},
		},
	}
	err := r.Validate([]AgentName{AgentBugHunter, AgentPerformance})
	assert.Error(t, err)
}

func TestRubric_Validate_HappyPath(t *testing.T) {
	r := Rubric{
		Dimensions: []RubricDimension{
			{Name: "code_quality", Weight: 1.0, Agent: string(AgentBugHunter)},
		},
	}
	err := r.Validate([]AgentName{AgentBugHunter})
	require.NoError(t, err)
}

func TestRubric_Validate_UnknownAgentRejected(t *testing.T) {
	r := Rubric{
		Dimensions: []RubricDimension{
			{Name: "code_quality", Weight: 1.0, Agent: "nonexistent_agent"},
		},
	}
	err := r.Validate([]AgentName{AgentBugHunter})
	assert.Error(t, err)
}

func TestHackathonStatus_CanTransition(t *testing.T) {
	assert.True(t, HackathonDraft.CanTransition(HackathonConfigured))
	assert.False(t, HackathonDraft.CanTransition(HackathonAnalyzing))
	assert.True(t, HackathonAnalyzing.CanTransition(HackathonCompleted))
	assert.True(t, HackathonCompleted.CanTransition(HackathonArchived))
}

func TestHackathonStatus_MutationLocked(t *testing.T) {
	assert.False(t, HackathonDraft.MutationLocked())
	assert.False(t, HackathonConfigured.MutationLocked())
	assert.True(t, HackathonAnalyzing.MutationLocked())
	assert.True(t, HackathonCompleted.MutationLocked())
}

func TestAnalysisStatus_GateOpen(t *testing.T) {
	assert.True(t, AnalysisNotStarted.GateOpen())
	assert.True(t, AnalysisComplete.GateOpen())
	assert.True(t, AnalysisFailed.GateOpen())
	assert.False(t, AnalysisInProgress.GateOpen())
}

func TestClassifyRecommendation(t *testing.T) {
	cases := []struct {
		score float64
		want  Recommendation
	}{
		{8.0, RecommendationStrongContender},
		{9.9, RecommendationStrongContender},
		{6.5, RecommendationSolidSubmission},
		{7.9, RecommendationSolidSubmission},
		{4.5, RecommendationNeedsImprovement},
		{6.4, RecommendationNeedsImprovement},
		{0, RecommendationConcernsFlagged},
		{4.4, RecommendationConcernsFlagged},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyRecommendation(c.score), "score=%v", c.score)
	}
}

func TestHackathonCostSummary_MergeSubmission_Additive(t *testing.T) {
	var s HackathonCostSummary
	s.MergeSubmission([]CostRecord{
		{Agent: AgentBugHunter, ModelID: "claude-3", TotalCostUSD: 1.0},
	})
	s.MergeSubmission([]CostRecord{
		{Agent: AgentBugHunter, ModelID: "claude-3", TotalCostUSD: 2.0},
	})

	assert.Equal(t, 3.0, s.TotalCostUSD)
	assert.Equal(t, 2, s.SubmissionsAnalyzed)
	assert.Equal(t, 1.5, s.AvgCostPerSubmission)
	assert.Equal(t, 3.0, s.CostByAgent[AgentBugHunter])
}

func TestAgentResult_ClampScores(t *testing.T) {
	r := AgentResult{
		Scores:       map[string]float64{"code_quality": 15, "security": -2},
		OverallScore: 11,
	}
	r.ClampScores()

	assert.Equal(t, 10.0, r.Scores["code_quality"])
	assert.Equal(t, 0.0, r.Scores["security"])
	assert.Equal(t, 10.0, r.OverallScore)
}

func TestAgentResult_UnverifiedEvidenceRatio(t *testing.T) {
	r := AgentResult{
		Evidence: []Evidence{
			{File: "main.go", Verified: true},
			{File: "ghost.go", Verified: false},
			{File: "", Verified: false},
		},
	}
	assert.InDelta(t, 0.5, r.UnverifiedEvidenceRatio(), 1e-9)
}

func TestSubmission_EligibleForAnalysis(t *testing.T) {
	pending := Submission{Status: SubmissionPending}
	completed := Submission{Status: SubmissionCompleted}

	assert.True(t, pending.EligibleForAnalysis(false))
	assert.False(t, completed.EligibleForAnalysis(false))
	assert.True(t, completed.EligibleForAnalysis(true))
}

func TestRepoContext_Grounding(t *testing.T) {
	ctx := RepoContext{
		FileTree: []string{"main.go", "README.md"},
		Commits:  []Commit{{Hash: "abc123"}},
	}
	assert.True(t, ctx.HasFile("main.go"))
	assert.False(t, ctx.HasFile("missing.go"))
	assert.True(t, ctx.HasCommit("abc123"))
	assert.False(t, ctx.HasCommit("deadbeef"))
}
