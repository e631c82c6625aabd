package extractor

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Priority score tiers, fixed by the extraction protocol.
const (
	PriorityEntryPoint = 100
	PriorityManifest   = 90
	PriorityContainer  = 85
	PriorityWorkflow   = 80
	PriorityTest       = 70
	PrioritySource     = 50
	PriorityConfig     = 40
	PriorityDiscard    = 0
)

var entryPointNames = map[string]bool{
	"main.go": true, "main.py": true, "main.rs": true, "main.c": true, "main.cpp": true,
	"app.py": true, "app.js": true, "app.ts": true,
	"index.js": true, "index.ts": true, "index.html": true,
	"server.js": true, "server.ts": true, "server.go": true,
	"program.cs": true,
}

var manifestNames = map[string]bool{
	"requirements.txt": true, "pyproject.toml": true, "package.json": true,
	"go.mod": true, "cargo.toml": true, "gemfile": true, "pom.xml": true,
	"build.gradle": true, "composer.json": true,
}

var containerNames = map[string]bool{
	"dockerfile": true, "docker-compose.yml": true, "docker-compose.yaml": true,
}

var workflowPathFragments = []string{
	".github/workflows/", ".gitlab-ci.yml", "terraform/", ".circleci/",
}

var testPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(^|/)test[s]?/`),
	regexp.MustCompile(`(?i)_test\.[a-z]+$`),
	regexp.MustCompile(`(?i)\.test\.[a-z]+$`),
	regexp.MustCompile(`(?i)(^|/)spec[s]?/`),
	regexp.MustCompile(`(?i)\.spec\.[a-z]+$`),
}

var sourceExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".java": true, ".rb": true, ".rs": true, ".c": true, ".cpp": true, ".h": true,
	".cs": true, ".php": true, ".kt": true, ".swift": true, ".scala": true,
}

var configExtensions = map[string]bool{
	".yml": true, ".yaml": true, ".json": true, ".toml": true, ".ini": true,
	".cfg": true, ".env": true,
}

// ignoreDirs are directory names (matched whole, case-insensitively)
// never walked into.
var ignoreDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true,
	"build": true, "target": true, ".venv": true, "venv": true,
	"__pycache__": true, ".idea": true, ".vscode": true, "bin": true, "obj": true,
}

// IsIgnoredDir reports whether dirName should be skipped during the
// worktree walk.
func IsIgnoredDir(dirName string) bool {
	return ignoreDirs[strings.ToLower(dirName)]
}

// PriorityOf is the pure scoring function from spec §4.2 step 7: a
// function of filename and relative path only. Higher scores are kept;
// zero is discarded.
func PriorityOf(relPath string) int {
	base := strings.ToLower(filepath.Base(relPath))
	lowerPath := strings.ToLower(relPath)

	if entryPointNames[base] {
		return PriorityEntryPoint
	}
	if manifestNames[base] {
		return PriorityManifest
	}
	if containerNames[base] {
		return PriorityContainer
	}
	for _, frag := range workflowPathFragments {
		if strings.Contains(lowerPath, frag) {
			return PriorityWorkflow
		}
	}
	for _, re := range testPatterns {
		if re.MatchString(lowerPath) {
			return PriorityTest
		}
	}

	ext := strings.ToLower(filepath.Ext(base))
	if sourceExtensions[ext] {
		return PrioritySource
	}
	if configExtensions[ext] {
		return PriorityConfig
	}
	return PriorityDiscard
}

// RankedFile is one candidate file with its computed priority and line
// count, used to break priority ties by larger line count first.
type RankedFile struct {
	Path      string
	LineCount int
	Priority  int
}

// SelectTopFiles applies the prioritisation, tie-break, and N_files cap
// rules from spec §4.2 step 7. Files with priority 0 are discarded
// before ranking.
func SelectTopFiles(candidates []RankedFile, nFiles int) []RankedFile {
	kept := make([]RankedFile, 0, len(candidates))
	for _, c := range candidates {
		if c.Priority > 0 {
			kept = append(kept, c)
		}
	}

	sortRankedFiles(kept)

	if len(kept) > nFiles {
		kept = kept[:nFiles]
	}
	return kept
}

// sortRankedFiles orders by priority descending, then by line count
// descending (the tie-break rule), then by path for determinism.
func sortRankedFiles(files []RankedFile) {
	// Simple insertion sort is adequate: candidate lists are bounded by
	// a repository's file count and this runs once per submission.
	for i := 1; i < len(files); i++ {
		j := i
		for j > 0 && less(files[j], files[j-1]) {
			files[j], files[j-1] = files[j-1], files[j]
			j--
		}
	}
}

func less(a, b RankedFile) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.LineCount != b.LineCount {
		return a.LineCount > b.LineCount
	}
	return a.Path < b.Path
}
