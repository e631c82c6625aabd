package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ma-za-kpe/vibejudge/model"
)

// WorkflowRunLimit is the cap on fetched workflow runs (spec §4.2 step
// 13).
const WorkflowRunLimit = 50

// workflowFetchTimeout bounds the host API call; a timeout here is
// explicitly non-fatal to the overall extraction.
const workflowFetchTimeout = 15 * time.Second

// HostAPIClient fetches CI workflow run data from a repository host's
// API (e.g. GitHub Actions). Failures and timeouts are non-fatal: the
// extractor returns with empty workflow data rather than failing the
// whole Extract call.
type HostAPIClient struct {
	HTTPClient *http.Client
	BaseURL    string // e.g. "https://api.github.com"
}

func (c HostAPIClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: workflowFetchTimeout}
}

type ghWorkflowRunsResponse struct {
	WorkflowRuns []ghWorkflowRun `json:"workflow_runs"`
}

type ghWorkflowRun struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	CreatedAt  string `json:"created_at"`
}

// FetchWorkflowRuns fetches up to WorkflowRunLimit workflow runs for
// ref. Any error (network, decode, non-200 status) is swallowed and
// reported via the returned bool, per spec §4.2 step 13's "non-fatal on
// timeout" requirement.
func (c HostAPIClient) FetchWorkflowRuns(ctx context.Context, ref RepoRef) ([]model.WorkflowRun, bool) {
	ctx, cancel := context.WithTimeout(ctx, workflowFetchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/actions/runs?per_page=%d", c.baseURL(), ref.Owner, ref.Repo, WorkflowRunLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var decoded ghWorkflowRunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false
	}

	runs := make([]model.WorkflowRun, 0, len(decoded.WorkflowRuns))
	for _, r := range decoded.WorkflowRuns {
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
		runs = append(runs, model.WorkflowRun{
			ID:         fmt.Sprintf("%d", r.ID),
			Name:       r.Name,
			Status:     r.Status,
			Conclusion: r.Conclusion,
			CreatedAt:  createdAt,
		})
	}
	return runs, true
}

func (c HostAPIClient) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://api.github.com"
}

// FetchWorkflowDefs lists workflow definition file paths from
// allFiles, used to populate RepoContext.WorkflowDefs without an extra
// network call.
func FetchWorkflowDefs(allFiles []WalkedFile) []string {
	var defs []string
	for _, f := range allFiles {
		if strings.Contains(f.RelPath, ".github/workflows/") {
			defs = append(defs, f.RelPath)
		}
	}
	return defs
}
