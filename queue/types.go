package queue

import (
	"fmt"
	"time"
)

// WorkItem represents a single unit of work submitted to an agent's queue.
// It contains all necessary information for a worker to evaluate an agent
// against a submission and return results.
type WorkItem struct {
	// JobID correlates all work items belonging to one submission
	JobID string `json:"job_id"`

	// Index is the position of this item in the batch (0-based)
	Index int `json:"index"`

	// Total is the total number of items in the batch
	Total int `json:"total"`

	// Tool is the name of the agent to evaluate
	Tool string `json:"tool"`

	// InputJSON is the work item's input payload, serialized as JSON
	InputJSON string `json:"input_json"`

	// InputType is a logical message type name identifying the input
	// payload's shape, used for routing/validation, not a wire format.
	// Example: "vibejudge.agent.v1.EvaluateRequest"
	InputType string `json:"input_type"`

	// OutputType is the expected output message type name
	// Example: "vibejudge.agent.v1.EvaluateResponse"
	OutputType string `json:"output_type"`

	// TraceID correlates this work item with the submission pipeline run
	// that produced it, for log correlation.
	TraceID string `json:"trace_id"`

	// SpanID identifies this specific unit of work within TraceID.
	SpanID string `json:"span_id"`

	// SubmittedAt is the Unix timestamp in milliseconds when work was submitted
	SubmittedAt int64 `json:"submitted_at"`
}

// Result represents the outcome of executing a WorkItem.
// It is published to a job-specific pub/sub channel for the daemon to collect.
type Result struct {
	// JobID correlates this result with the original work item
	JobID string `json:"job_id"`

	// Index is the position of this result in the batch
	Index int `json:"index"`

	// OutputJSON is the work item's output payload, serialized as JSON.
	// Empty if Error is set.
	OutputJSON string `json:"output_json,omitempty"`

	// OutputType is the message type name of the output (see WorkItem.OutputType).
	OutputType string `json:"output_type"`

	// Error is the error message if execution failed
	// Empty if execution succeeded
	Error string `json:"error,omitempty"`

	// WorkerID is the unique identifier of the worker that processed this item
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when execution started
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when execution completed
	CompletedAt int64 `json:"completed_at"`
}

// IsValid checks if the WorkItem has all required fields populated correctly.
// Returns an error describing any validation failures.
func (w *WorkItem) IsValid() error {
	if w.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if w.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", w.Index)
	}
	if w.Total <= 0 {
		return fmt.Errorf("total must be positive, got %d", w.Total)
	}
	if w.Index >= w.Total {
		return fmt.Errorf("index %d is out of bounds for total %d", w.Index, w.Total)
	}
	if w.Tool == "" {
		return fmt.Errorf("tool name is required")
	}
	if w.InputJSON == "" {
		return fmt.Errorf("input_json is required")
	}
	if w.InputType == "" {
		return fmt.Errorf("input_type is required")
	}
	if w.OutputType == "" {
		return fmt.Errorf("output_type is required")
	}
	if w.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", w.SubmittedAt)
	}
	return nil
}

// Age returns the duration since this work item was submitted.
// Useful for detecting stale work items and computing queue wait time.
func (w *WorkItem) Age() time.Duration {
	if w.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-w.SubmittedAt) * time.Millisecond
}

// HasError returns true if the result represents a failed execution.
func (r *Result) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent processing this item.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", r.Index)
	}
	if r.OutputType == "" {
		return fmt.Errorf("output_type is required")
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", r.CompletedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if !r.HasError() && r.OutputJSON == "" {
		return fmt.Errorf("output_json is required when error is empty")
	}
	return nil
}
