package vjerr

import "errors"

// Sentinel errors for the orchestrator's pre-flight state-machine
// guards (spec §4.1, §7). Checked with errors.Is.
var (
	// ErrAnalysisInProgress is returned when a job is already running
	// for the hackathon; the atomic concurrency gate rejected the
	// conditional write.
	ErrAnalysisInProgress = errors.New("vjerr: analysis already in progress")

	// ErrBudgetExceeded is returned when the estimated high-end cost of
	// a trigger would push the hackathon's spend past its budget limit.
	ErrBudgetExceeded = errors.New("vjerr: budget exceeded")

	// ErrNoPendingSubmissions is returned when the selected submission
	// set is empty.
	ErrNoPendingSubmissions = errors.New("vjerr: no pending submissions")

	// ErrNotOwner is returned when the caller's credential does not
	// match the hackathon's owning organizer.
	ErrNotOwner = errors.New("vjerr: not owner")

	// ErrModelUnavailable is returned when no configured model can
	// service the requested agents.
	ErrModelUnavailable = errors.New("vjerr: model unavailable")

	// ErrInvalidStatusForMutation is returned when a caller attempts to
	// mutate a hackathon's rubric, agents_enabled, or ai_policy_mode
	// while its status is outside {draft, configured}.
	ErrInvalidStatusForMutation = errors.New("vjerr: invalid status for mutation")

	// ErrInvalidURL is returned by the extractor when a repo URL does
	// not match the accepted host/owner/repo shape.
	ErrInvalidURL = errors.New("vjerr: invalid repository url")

	// ErrNotAccessible is returned when a repository cannot be reached
	// or cloned for reasons other than a timeout.
	ErrNotAccessible = errors.New("vjerr: repository not accessible")

	// ErrCloneTimeout is returned when both the full clone and the
	// shallow-clone fallback fail to complete within their deadlines.
	ErrCloneTimeout = errors.New("vjerr: clone timed out")

	// ErrEmptyRepository is returned when no branch can be resolved.
	ErrEmptyRepository = errors.New("vjerr: repository is empty")

	// ErrInvalidOutput is returned when an agent's model response fails
	// JSON parsing or schema validation after its one corrective retry.
	ErrInvalidOutput = errors.New("vjerr: invalid agent output")
)
