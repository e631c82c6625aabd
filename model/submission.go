package model

import "time"

// SubmissionStatus is the lifecycle state of one submission's analysis.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionCloning   SubmissionStatus = "cloning"
	SubmissionAnalyzing SubmissionStatus = "analyzing"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionFailed    SubmissionStatus = "failed"
	SubmissionTimeout   SubmissionStatus = "timeout"
)

// IsTerminal reports whether s is a status the orchestrator will not
// move out of without an explicit force_reanalysis request.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case SubmissionCompleted, SubmissionFailed, SubmissionTimeout:
		return true
	default:
		return false
	}
}

// RepoMeta is the persisted summary of a cloned repository. Unlike
// RepoContext, which is ephemeral and holds full file contents, RepoMeta
// is small enough to live alongside the Submission record.
type RepoMeta struct {
	CommitCount             int       `json:"commit_count"`
	BranchCount             int       `json:"branch_count"`
	ContributorCount        int       `json:"contributor_count"`
	LanguageBySourceLines    map[string]int `json:"language_by_source_lines"`
	FileCount               int       `json:"file_count"`
	LineCount               int       `json:"line_count"`
	HasReadme               bool      `json:"has_readme"`
	HasTests                bool      `json:"has_tests"`
	HasCI                   bool      `json:"has_ci"`
	HasDockerfile           bool      `json:"has_dockerfile"`
	FirstCommitAt           time.Time `json:"first_commit_at"`
	LastCommitAt            time.Time `json:"last_commit_at"`
	DevelopmentDurationHours float64  `json:"development_duration_hours"`
	WorkflowRunCount        int       `json:"workflow_run_count"`
	WorkflowSuccessRate     float64   `json:"workflow_success_rate"`
}

// Submission is one team's repository entry in a hackathon, and the
// unit the orchestrator's per-submission pipeline operates on.
//
// Uniqueness within a hackathon holds on (TeamName) and on (RepoURL).
// A Submission is immutable once Status is SubmissionCompleted unless a
// force-reanalysis is requested.
type Submission struct {
	SubID              string           `json:"sub_id"`
	HackID             string           `json:"hack_id"`
	TeamName           string           `json:"team_name"`
	RepoURL            string           `json:"repo_url"`
	Status             SubmissionStatus `json:"status"`
	OverallScore       *float64         `json:"overall_score,omitempty"`
	Rank               *int             `json:"rank,omitempty"`
	RepoMeta           *RepoMeta        `json:"repo_meta,omitempty"`
	TotalCostUSD       *float64         `json:"total_cost_usd,omitempty"`
	AnalysisDurationMs *int64           `json:"analysis_duration_ms,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Validate checks structural invariants independent of any hackathon
// context (uniqueness constraints are enforced by the store layer).
func (s Submission) Validate() error {
	if s.SubID == "" {
		return fieldError("SubID", "must not be empty")
	}
	if s.HackID == "" {
		return fieldError("HackID", "must not be empty")
	}
	if s.TeamName == "" {
		return fieldError("TeamName", "must not be empty")
	}
	if s.RepoURL == "" {
		return fieldError("RepoURL", "must not be empty")
	}
	return nil
}

// EligibleForAnalysis reports whether s should be included in a
// TriggerAnalysis selection: pending submissions always qualify, and
// completed submissions qualify only under force_reanalysis.
func (s Submission) EligibleForAnalysis(forceReanalysis bool) bool {
	if s.Status == SubmissionPending {
		return true
	}
	return forceReanalysis && s.Status == SubmissionCompleted
}
