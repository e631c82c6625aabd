package model

import "time"

// AgentName identifies one of the four concrete judge agents.
type AgentName string

const (
	AgentBugHunter   AgentName = "bug_hunter"
	AgentPerformance AgentName = "performance"
	AgentInnovation  AgentName = "innovation"
	AgentAIDetection AgentName = "ai_detection"
)

// IsValid reports whether a is one of the four recognized agents.
func (a AgentName) IsValid() bool {
	switch a {
	case AgentBugHunter, AgentPerformance, AgentInnovation, AgentAIDetection:
		return true
	default:
		return false
	}
}

// AIPolicyMode controls how the ai_detection agent's findings are
// interpreted by the aggregator.
type AIPolicyMode string

const (
	PolicyFullVibe     AIPolicyMode = "full_vibe"
	PolicyAIAssisted   AIPolicyMode = "ai_assisted"
	PolicyTraditional  AIPolicyMode = "traditional"
	PolicyCustom       AIPolicyMode = "custom"
)

// IsValid reports whether m is one of the recognized policy modes.
func (m AIPolicyMode) IsValid() bool {
	switch m {
	case PolicyFullVibe, PolicyAIAssisted, PolicyTraditional, PolicyCustom:
		return true
	default:
		return false
	}
}

// HackathonStatus is the lifecycle state of a hackathon.
type HackathonStatus string

const (
	HackathonDraft      HackathonStatus = "draft"
	HackathonConfigured HackathonStatus = "configured"
	HackathonAnalyzing  HackathonStatus = "analyzing"
	HackathonCompleted  HackathonStatus = "completed"
	HackathonArchived   HackathonStatus = "archived"
)

// validHackathonTransitions enumerates the allowed status machine edges.
var validHackathonTransitions = map[HackathonStatus][]HackathonStatus{
	HackathonDraft:      {HackathonConfigured},
	HackathonConfigured: {HackathonAnalyzing},
	HackathonAnalyzing:  {HackathonCompleted},
	HackathonCompleted:  {HackathonArchived, HackathonAnalyzing},
	HackathonArchived:   {},
}

// CanTransition reports whether moving from s to next is a legal edge in
// the hackathon status machine.
func (s HackathonStatus) CanTransition(next HackathonStatus) bool {
	for _, allowed := range validHackathonTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MutationLocked reports whether s forbids mutating the rubric,
// agents_enabled, or ai_policy_mode. Per spec, these fields are
// immutable once status is no longer draft or configured.
func (s HackathonStatus) MutationLocked() bool {
	return s != HackathonDraft && s != HackathonConfigured
}

// AnalysisStatus is the gate field used by the orchestrator's atomic
// conditional-write concurrency check (see store/gate). It is
// the sole serialization point guarding "at most one job in_progress
// per hackathon."
type AnalysisStatus string

const (
	AnalysisNotStarted AnalysisStatus = "not_started"
	AnalysisInProgress AnalysisStatus = "in_progress"
	AnalysisComplete   AnalysisStatus = "complete"
	AnalysisFailed     AnalysisStatus = "failed"
)

// GateOpen reports whether the gate may transition from this status
// into AnalysisInProgress.
func (s AnalysisStatus) GateOpen() bool {
	switch s {
	case AnalysisNotStarted, AnalysisComplete, AnalysisFailed:
		return true
	default:
		return false
	}
}

// Hackathon is one organizer-run event, the unit the rubric, enabled
// agents, and budget are configured against.
type Hackathon struct {
	HackID          string          `json:"hack_id"`
	OrgID           string          `json:"org_id"`
	Name            string          `json:"name"`
	Status          HackathonStatus `json:"status"`
	Rubric          Rubric          `json:"rubric"`
	AgentsEnabled   []AgentName     `json:"agents_enabled"`
	AIPolicyMode    AIPolicyMode    `json:"ai_policy_mode"`
	BudgetLimitUSD  *float64        `json:"budget_limit_usd,omitempty"`
	SubmissionCount int             `json:"submission_count"`
	AnalysisStatus  AnalysisStatus  `json:"analysis_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the rubric/agents_enabled/policy invariants.
func (h Hackathon) Validate() error {
	if h.HackID == "" {
		return fieldError("HackID", "must not be empty")
	}
	if len(h.AgentsEnabled) == 0 {
		return fieldError("AgentsEnabled", "must enable at least one agent")
	}
	for _, a := range h.AgentsEnabled {
		if !a.IsValid() {
			return fieldError("AgentsEnabled", "unrecognized agent %q", a)
		}
	}
	if !h.AIPolicyMode.IsValid() {
		return fieldError("AIPolicyMode", "unrecognized policy mode %q", h.AIPolicyMode)
	}
	return h.Rubric.Validate(h.AgentsEnabled)
}

// Activate performs the explicit draft→configured transition. Per the
// spec's adopted reading of an ambiguous source behavior, analysis may
// not be triggered before a hackathon has been activated.
func (h *Hackathon) Activate() error {
	if !h.Status.CanTransition(HackathonConfigured) {
		return fieldError("Status", "cannot activate from %q", h.Status)
	}
	h.Status = HackathonConfigured
	return nil
}

// EnabledAgentSet returns AgentsEnabled as a lookup set.
func (h Hackathon) EnabledAgentSet() map[AgentName]bool {
	set := make(map[AgentName]bool, len(h.AgentsEnabled))
	for _, a := range h.AgentsEnabled {
		set[a] = true
	}
	return set
}
