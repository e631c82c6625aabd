package model

import "time"

// SourceFile is one prioritized, possibly-truncated file extracted from
// a repository worktree.
type SourceFile struct {
	Path          string `json:"path"`
	Content       string `json:"content"`
	LineCount     int    `json:"line_count"`
	Priority      int    `json:"priority"`
	Truncated     bool   `json:"truncated"`
}

// Commit is one entry in a repository's commit history, as recorded by
// the extractor.
type Commit struct {
	Hash              string    `json:"hash"`
	ShortHash         string    `json:"short_hash"`
	Author            string    `json:"author"`
	CommitterAt       time.Time `json:"committer_at"`
	MessageFirstLine  string    `json:"message_first_line"`
	FilesChanged      int       `json:"files_changed"`
	Insertions        int       `json:"insertions"`
	Deletions         int       `json:"deletions"`
}

// FileChangeType classifies how a file changed in a commit's diff.
type FileChangeType string

const (
	FileAdded    FileChangeType = "added"
	FileModified FileChangeType = "modified"
	FileDeleted  FileChangeType = "deleted"
	FileRenamed  FileChangeType = "renamed"
)

// FileChange is one file's change within a CommitDiff.
type FileChange struct {
	Path string         `json:"path"`
	Type FileChangeType `json:"type"`
}

// CommitDiff is the per-file change summary for one high-churn commit.
// Diff text itself is never retained.
type CommitDiff struct {
	Hash    string       `json:"hash"`
	Changes []FileChange `json:"changes"`
}

// WorkflowRun is one CI run fetched from the repository host's API.
type WorkflowRun struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	CreatedAt  time.Time `json:"created_at"`
}

// RepoContext is the bounded, prioritized artifact the extractor
// produces for one submission and agents consume read-only.
//
// RepoContext is never persisted in full; only the small RepoMeta
// summary survives past the analysis that produced it. Its lifetime is
// scoped to a single submission's pipeline run.
type RepoContext struct {
	Owner          string        `json:"owner"`
	Repo           string        `json:"repo"`
	DefaultBranch  string        `json:"default_branch"`
	Meta           RepoMeta      `json:"meta"`
	FileTree       []string      `json:"file_tree"`
	Readme         string        `json:"readme"`
	SourceFiles    []SourceFile  `json:"source_files"`
	Commits        []Commit      `json:"commits"`
	DiffSummary    []CommitDiff  `json:"diff_summary"`
	WorkflowDefs   []string      `json:"workflow_defs"`
	WorkflowRuns   []WorkflowRun `json:"workflow_runs"`
}

// HasFile reports whether path appears in the file tree, the grounding
// check used by the agent runtime's evidence verification.
func (c RepoContext) HasFile(path string) bool {
	for _, f := range c.FileTree {
		if f == path {
			return true
		}
	}
	return false
}

// HasCommit reports whether hash appears among the extracted commits,
// the grounding check used for commit-referencing evidence.
func (c RepoContext) HasCommit(hash string) bool {
	for _, commit := range c.Commits {
		if commit.Hash == hash {
			return true
		}
	}
	return false
}
