package agentrt

import (
	"testing"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/stretchr/testify/assert"
)

func repoWithFiles(files ...string) model.RepoContext {
	return model.RepoContext{
		FileTree: files,
		Commits:  []model.Commit{{Hash: "abc123"}},
	}
}

func TestGroundEvidence_MarksVerifiedFiles(t *testing.T) {
	result := model.AgentResult{
		Confidence: 1.0,
		Evidence: []model.Evidence{
			{Finding: "f1", File: "main.go"},
			{Finding: "f2", File: "missing.go"},
		},
	}
	out := GroundEvidence(result, repoWithFiles("main.go", "util.go"))
	assert.True(t, out.Evidence[0].Verified)
	assert.False(t, out.Evidence[1].Verified)
	assert.Equal(t, "file not in repo", out.Evidence[1].Note)
}

func TestGroundEvidence_ForcesConfidenceCeilingOnFabrication(t *testing.T) {
	result := model.AgentResult{
		Confidence: 0.95,
		Evidence: []model.Evidence{
			{Finding: "f1", File: "missing1.go"},
			{Finding: "f2", File: "missing2.go"},
			{Finding: "f3", File: "main.go"},
		},
	}
	out := GroundEvidence(result, repoWithFiles("main.go"))
	assert.LessOrEqual(t, out.Confidence, forcedConfidenceCeiling)
	assert.True(t, out.HasFlag(model.FlagFabricatedEvidence))
}

func TestGroundEvidence_CommitCitation(t *testing.T) {
	result := model.AgentResult{
		Confidence: 1.0,
		Evidence:   []model.Evidence{{Finding: "f1", Commit: "abc123"}, {Finding: "f2", Commit: "zzz"}},
	}
	out := GroundEvidence(result, repoWithFiles())
	assert.True(t, out.Evidence[0].Verified)
	assert.False(t, out.Evidence[1].Verified)
}

func TestApplySanityChecks_UniformScoresHalvesConfidence(t *testing.T) {
	result := model.AgentResult{
		Confidence: 0.8,
		Scores:     map[string]float64{"a": 5.0, "b": 5.0, "c": 5.0},
	}
	out := ApplySanityChecks(result)
	assert.Equal(t, 0.4, out.Confidence)
	assert.True(t, out.HasFlag(model.FlagUniformScores))
}

func TestApplySanityChecks_AllHighFlagsUnusuallyHigh(t *testing.T) {
	result := model.AgentResult{
		Confidence: 0.8,
		Scores:     map[string]float64{"a": 9.5, "b": 9.0, "c": 10.0},
	}
	out := ApplySanityChecks(result)
	assert.True(t, out.HasFlag(model.FlagUnusuallyHigh))
	assert.Equal(t, 0.8, out.Confidence)
}

func TestApplySanityChecks_NormalScoresNoFlags(t *testing.T) {
	result := model.AgentResult{
		Confidence: 0.8,
		Scores:     map[string]float64{"a": 7.0, "b": 6.0, "c": 8.0},
	}
	out := ApplySanityChecks(result)
	assert.Empty(t, out.Flags)
}
