package model

import "time"

// JobStatus is the lifecycle state of an AnalysisJob.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether s is a state the job scheduler will not
// transition out of.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// JobErrorEntry is one submission's failure recorded against a job,
// appended by the orchestrator's failure-isolation path without
// aborting the rest of the job.
type JobErrorEntry struct {
	SubID   string    `json:"sub_id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// AnalysisJob is one invocation of the orchestrator over a selected set
// of submissions in a hackathon. It retains for 30 days after reaching
// a terminal state, then expires (see store's TTL attribute).
type AnalysisJob struct {
	JobID       string          `json:"job_id"`
	HackID      string          `json:"hack_id"`
	Status      JobStatus       `json:"status"`
	Total       int             `json:"total"`
	Completed   int             `json:"completed"`
	Failed      int             `json:"failed"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	ErrorLog    []JobErrorEntry `json:"error_log"`
}

// JobTTL is the retention window for a terminal AnalysisJob before it
// expires from the store.
const JobTTL = 30 * 24 * time.Hour

// AllDone reports whether every submission the job was scheduled over
// has reached a terminal outcome (completed or failed, counting
// timeouts as failed for this purpose).
func (j AnalysisJob) AllDone() bool {
	return j.Completed+j.Failed >= j.Total
}

// AllFailed reports whether every submission in the job failed, the
// condition under which the job itself transitions to JobFailed rather
// than JobCompleted.
func (j AnalysisJob) AllFailed() bool {
	return j.Total > 0 && j.Failed >= j.Total
}
