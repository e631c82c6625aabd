package extractor

import (
	"context"
	"sort"
	"time"

	vjexec "github.com/ma-za-kpe/vibejudge/exec"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// NDiffs is the default number of high-churn commits summarised (spec
// §4.2 step 11).
const NDiffs = 30

// SelectTopChurnCommits returns up to n commits from commits sorted by
// total churn (insertions+deletions) descending, the selection rule
// feeding the diff summary.
func SelectTopChurnCommits(commits []model.Commit, n int) []model.Commit {
	ranked := append([]model.Commit(nil), commits...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return churn(ranked[i]) > churn(ranked[j])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func churn(c model.Commit) int {
	return c.Insertions + c.Deletions
}

var changeTypeCodes = map[byte]model.FileChangeType{
	'A': model.FileAdded,
	'M': model.FileModified,
	'D': model.FileDeleted,
	'R': model.FileRenamed,
}

// DiffSummary fetches the per-file change-type summary for one commit
// against its first parent (or the empty tree for a root commit). Diff
// text itself is never retained, only the path and change type.
func (c Cloner) DiffSummary(ctx context.Context, dir, hash string) (model.CommitDiff, error) {
	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"diff-tree", "--no-commit-id", "--name-status", "-r", "--root", "--diff-merges=first-parent", hash},
		WorkDir: dir,
		Timeout: 15 * time.Second,
	})
	if err != nil {
		return model.CommitDiff{}, vjerr.New("extractor.DiffSummary", vjerr.CodeTransient, "git diff-tree failed").WithCause(err)
	}
	if result.ExitCode != 0 {
		return model.CommitDiff{}, vjerr.New("extractor.DiffSummary", vjerr.CodeTransient, string(result.Stderr))
	}

	return model.CommitDiff{Hash: hash, Changes: parseNameStatus(string(result.Stdout))}, nil
}

func parseNameStatus(output string) []model.FileChange {
	var changes []model.FileChange
	lines := splitLines(output)
	for _, line := range lines {
		if line == "" {
			continue
		}
		fields := splitTab(line)
		if len(fields) < 2 {
			continue
		}
		code := fields[0][0]
		changeType, ok := changeTypeCodes[code]
		if !ok {
			continue
		}
		path := fields[len(fields)-1]
		changes = append(changes, model.FileChange{Path: path, Type: changeType})
	}
	return changes
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func splitTab(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\t' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
