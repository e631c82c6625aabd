// Package extractor implements the Repository Extractor: given a
// submission's repo_url, it clones the repository into ephemeral
// storage and materialises a bounded, prioritised RepoContext (spec
// §4.2). The extractor owns the lifetime of the ephemeral worktree and
// guarantees its cleanup on every exit path.
package extractor

import (
	"context"
	"os"
	"path/filepath"

	vjexec "github.com/ma-za-kpe/vibejudge/exec"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// Config controls the extractor's bounds.
type Config struct {
	NFiles          int
	NCommits        int
	NDiffs          int
	CloneBudgetBytes int64
	BaseDir         string // root for ephemeral clone directories; defaults to os.TempDir()
}

// ApplyDefaults fills zero-valued fields with the extraction protocol's
// fixed defaults.
func (c Config) ApplyDefaults() Config {
	out := c
	if out.NFiles <= 0 {
		out.NFiles = 25
	}
	if out.NCommits <= 0 {
		out.NCommits = NCommits
	}
	if out.NDiffs <= 0 {
		out.NDiffs = NDiffs
	}
	if out.CloneBudgetBytes <= 0 {
		out.CloneBudgetBytes = 2 * 1024 * 1024 * 1024
	}
	if out.BaseDir == "" {
		out.BaseDir = os.TempDir()
	}
	return out
}

// Extractor produces a RepoContext for one submission.
type Extractor struct {
	cfg     Config
	cloner  Cloner
	hostAPI HostAPIClient
}

// New creates an Extractor.
func New(cfg Config, hostAPI HostAPIClient) *Extractor {
	return &Extractor{cfg: cfg.ApplyDefaults(), cloner: Cloner{}, hostAPI: hostAPI}
}

// Extract implements spec §4.2's full protocol. The ephemeral directory
// reserved for submissionID is removed on every exit path, including
// cancellation.
func (e *Extractor) Extract(ctx context.Context, repoURL, submissionID string) (model.RepoContext, error) {
	ref, err := ParseRepoURL(repoURL)
	if err != nil {
		return model.RepoContext{}, err
	}

	dir := filepath.Join(e.cfg.BaseDir, "vibejudge-"+submissionID)
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return model.RepoContext{}, vjerr.New("extractor.Extract", vjerr.CodeResource, "failed to reserve ephemeral directory").WithCause(err)
	}
	defer os.RemoveAll(dir)

	if err := e.clone(ctx, ref, dir); err != nil {
		return model.RepoContext{}, err
	}

	branch, found, err := e.cloner.ResolveDefaultBranch(ctx, dir)
	if err != nil {
		return model.RepoContext{}, err
	}
	if !found {
		return model.RepoContext{}, vjerr.New("extractor.Extract", vjerr.CodeInput, "no branch found").WithCause(vjerr.ErrEmptyRepository)
	}

	allFiles, err := WalkWorktree(dir)
	if err != nil {
		return model.RepoContext{}, vjerr.New("extractor.Extract", vjerr.CodeTransient, "worktree walk failed").WithCause(err)
	}

	candidates := make([]RankedFile, 0, len(allFiles))
	byPath := make(map[string]WalkedFile, len(allFiles))
	for _, f := range allFiles {
		candidates = append(candidates, RankedFile{Path: f.RelPath, LineCount: f.LineCount, Priority: PriorityOf(f.RelPath)})
		byPath[f.RelPath] = f
	}
	top := SelectTopFiles(candidates, e.cfg.NFiles)

	sourceFiles := make([]model.SourceFile, 0, len(top))
	for _, t := range top {
		wf := byPath[t.Path]
		data, readErr := os.ReadFile(wf.AbsPath)
		if readErr != nil {
			continue
		}
		content, truncated := TruncateSource(string(data), wf.LineCount)
		sourceFiles = append(sourceFiles, model.SourceFile{
			Path:      t.Path,
			Content:   content,
			LineCount: wf.LineCount,
			Priority:  t.Priority,
			Truncated: truncated,
		})
	}

	allPaths := make([]string, 0, len(allFiles))
	for _, f := range allFiles {
		allPaths = append(allPaths, f.RelPath)
	}
	fileTree := BuildFileTree(allPaths)

	readme, _, hasReadme := ExtractReadme(dir)

	commits, err := e.cloner.ListCommits(ctx, dir, branch, e.cfg.NCommits)
	if err != nil {
		return model.RepoContext{}, err
	}

	topChurn := SelectTopChurnCommits(commits, e.cfg.NDiffs)
	diffSummary := make([]model.CommitDiff, 0, len(topChurn))
	for _, c := range topChurn {
		diff, diffErr := e.cloner.DiffSummary(ctx, dir, c.Hash)
		if diffErr != nil {
			continue
		}
		diffSummary = append(diffSummary, diff)
	}

	branchCount := countBranches(ctx, e.cloner, dir)
	workflowRuns, _ := e.hostAPI.FetchWorkflowRuns(ctx, ref)
	workflowDefs := FetchWorkflowDefs(allFiles)

	meta := BuildRepoMeta(allFiles, commits, branchCount, workflowRuns, hasReadme)

	return model.RepoContext{
		Owner:         ref.Owner,
		Repo:          ref.Repo,
		DefaultBranch: branch,
		Meta:          meta,
		FileTree:      fileTree,
		Readme:        readme,
		SourceFiles:   sourceFiles,
		Commits:       commits,
		DiffSummary:   diffSummary,
		WorkflowDefs:  workflowDefs,
		WorkflowRuns:  workflowRuns,
	}, nil
}

// clone performs the full-clone-then-shallow-fallback sequence from
// spec §4.2 steps 3-4.
func (e *Extractor) clone(ctx context.Context, ref RepoRef, dir string) error {
	fullErr := e.cloner.CloneFull(ctx, ref, dir)
	if fullErr == nil {
		size, sizeErr := dirSize(dir)
		if sizeErr == nil && size <= e.cfg.CloneBudgetBytes {
			return nil
		}
		os.RemoveAll(dir)
	}

	if err := e.cloner.CloneShallow(ctx, ref, dir); err != nil {
		return vjerr.New("extractor.clone", vjerr.CodeResource, "both full and shallow clone failed").WithCause(vjerr.ErrCloneTimeout)
	}
	return nil
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

func countBranches(ctx context.Context, c Cloner, dir string) int {
	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"branch", "-a"},
		WorkDir: dir,
	})
	if err != nil || result.ExitCode != 0 {
		return 0
	}
	return len(splitLines(string(result.Stdout)))
}
