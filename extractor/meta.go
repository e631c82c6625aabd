package extractor

import (
	"path/filepath"
	"strings"

	"github.com/ma-za-kpe/vibejudge/model"
)

var languageByExtension = map[string]string{
	".go": "Go", ".py": "Python", ".js": "JavaScript", ".ts": "TypeScript",
	".tsx": "TypeScript", ".jsx": "JavaScript", ".java": "Java", ".rb": "Ruby",
	".rs": "Rust", ".c": "C", ".cpp": "C++", ".h": "C", ".cs": "C#",
	".php": "PHP", ".kt": "Kotlin", ".swift": "Swift", ".scala": "Scala",
}

// BuildRepoMeta aggregates the summary fields persisted as
// Submission.RepoMeta (spec §4.2 step 12) from the full set of walked
// files, commit history, branch count, workflow runs, and README presence.
func BuildRepoMeta(allFiles []WalkedFile, commits []model.Commit, branchCount int, workflowRuns []model.WorkflowRun, hasReadme bool) model.RepoMeta {
	meta := model.RepoMeta{
		LanguageBySourceLines: make(map[string]int),
		BranchCount:           branchCount,
		HasReadme:             hasReadme,
		CommitCount:           len(commits),
		WorkflowRunCount:      len(workflowRuns),
	}

	contributors := make(map[string]bool)
	for _, f := range allFiles {
		meta.FileCount++
		meta.LineCount += f.LineCount

		ext := strings.ToLower(filepath.Ext(f.RelPath))
		if lang, ok := languageByExtension[ext]; ok {
			meta.LanguageBySourceLines[lang] += f.LineCount
		}

		base := strings.ToLower(filepath.Base(f.RelPath))
		if testPatternMatchesAny(f.RelPath) {
			meta.HasTests = true
		}
		if base == "dockerfile" {
			meta.HasDockerfile = true
		}
		lowerPath := strings.ToLower(f.RelPath)
		for _, frag := range workflowPathFragments {
			if strings.Contains(lowerPath, frag) {
				meta.HasCI = true
			}
		}
	}

	for _, c := range commits {
		contributors[c.Author] = true
	}
	meta.ContributorCount = len(contributors)

	if len(commits) > 0 {
		// commits are newest-first per ListCommits.
		meta.LastCommitAt = commits[0].CommitterAt
		meta.FirstCommitAt = commits[len(commits)-1].CommitterAt
		meta.DevelopmentDurationHours = meta.LastCommitAt.Sub(meta.FirstCommitAt).Hours()
	}

	if len(workflowRuns) > 0 {
		var succeeded int
		for _, r := range workflowRuns {
			if r.Conclusion == "success" {
				succeeded++
			}
		}
		meta.WorkflowSuccessRate = float64(succeeded) / float64(len(workflowRuns))
	}

	return meta
}

func testPatternMatchesAny(relPath string) bool {
	for _, re := range testPatterns {
		if re.MatchString(relPath) {
			return true
		}
	}
	return false
}
