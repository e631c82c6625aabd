package model

import "time"

// EvidenceSeverity classifies the severity of a bug_hunter evidence
// finding. Other agents may leave it empty.
type EvidenceSeverity string

const (
	SeverityCritical EvidenceSeverity = "critical"
	SeverityHigh     EvidenceSeverity = "high"
	SeverityMedium   EvidenceSeverity = "medium"
	SeverityLow      EvidenceSeverity = "low"
	SeverityInfo     EvidenceSeverity = "info"
)

// Evidence is one citation an agent makes in support of a finding. It is
// grounded against a RepoContext after the agent response is parsed:
// Verified is set by the agent runtime, never by the model.
type Evidence struct {
	Finding        string           `json:"finding"`
	File           string           `json:"file,omitempty"`
	Line           int              `json:"line,omitempty"`
	Commit         string           `json:"commit,omitempty"`
	Severity       EvidenceSeverity `json:"severity,omitempty"`
	Category       string           `json:"category,omitempty"`
	Recommendation string           `json:"recommendation,omitempty"`
	Verified       bool             `json:"verified"`
	Note           string           `json:"note,omitempty"`
}

// IntegrityFlag records a sanity-check or grounding anomaly found on an
// AgentResult. Flags are not errors: they annotate a result and reduce
// confidence, they never fail the agent.
type IntegrityFlag string

const (
	FlagUniformScores     IntegrityFlag = "UNIFORM_SCORES"
	FlagUnusuallyHigh     IntegrityFlag = "UNUSUALLY_HIGH"
	FlagFabricatedEvidence IntegrityFlag = "FABRICATED_EVIDENCE"

	// FlagAIPolicyReview marks an ai_detection result whose
	// ai_generation_indicators sub-score crossed the threshold the
	// hackathon's ai_policy_mode configures for manual review (spec
	// §4.3 step 8; see the policy package). It does not change
	// OverallScore or Confidence — the numeric score is stored as-is.
	FlagAIPolicyReview IntegrityFlag = "AI_POLICY_REVIEW"
)

// AgentResult is one judge agent's scorecard for one submission.
//
// OverallScore is either the agent's self-reported value clamped to
// [0,10], or a recomputation from Scores as their unweighted mean when the self-reported value is absent or inconsistent
// with Scores by more than the reconciliation threshold (see agentrt).
type AgentResult struct {
	SubID         string            `json:"sub_id"`
	Agent         AgentName         `json:"agent"`
	PromptVersion string            `json:"prompt_version"`
	ModelID       string            `json:"model_id"`
	Scores        map[string]float64 `json:"scores"`
	OverallScore  float64           `json:"overall_score"`
	Confidence    float64           `json:"confidence"`
	Evidence      []Evidence        `json:"evidence"`
	Summary       string            `json:"summary"`
	Strengths     []string          `json:"strengths"`
	Improvements  []string          `json:"improvements"`
	Flags         []IntegrityFlag   `json:"flags,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ClampScores clamps every scalar score and the overall score into
// [0,10], the range the schema validation step in the agent runtime
// enforces before grounding and sanity checks run.
func (r *AgentResult) ClampScores() {
	for k, v := range r.Scores {
		r.Scores[k] = clamp(v, 0, 10)
	}
	r.OverallScore = clamp(r.OverallScore, 0, 10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HasFlag reports whether r already carries flag.
func (r AgentResult) HasFlag(flag IntegrityFlag) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// UnverifiedEvidenceRatio returns the fraction of evidence items with a
// non-empty File that were not grounded against the RepoContext.
func (r AgentResult) UnverifiedEvidenceRatio() float64 {
	var withFile, unverified int
	for _, e := range r.Evidence {
		if e.File == "" {
			continue
		}
		withFile++
		if !e.Verified {
			unverified++
		}
	}
	if withFile == 0 {
		return 0
	}
	return float64(unverified) / float64(withFile)
}
