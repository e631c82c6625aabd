package extractor

import (
	"sort"
	"strings"
)

// FileTreeMaxDepth is the depth limit applied to the textual file_tree
// listing (spec §4.2 step 8).
const FileTreeMaxDepth = 4

// FileTreeMaxLines caps the total number of lines in the rendered
// file_tree listing.
const FileTreeMaxLines = 200

// BuildFileTree renders a depth-limited, line-capped textual listing of
// every path in paths. Paths deeper than FileTreeMaxDepth are collapsed
// to their ancestor directory at that depth. The returned slice is one
// entry per rendered line, in sorted order, ready to store directly as
// RepoContext.FileTree.
func BuildFileTree(paths []string) []string {
	seen := make(map[string]bool)
	var entries []string

	for _, p := range paths {
		segments := strings.Split(p, "/")
		if len(segments) > FileTreeMaxDepth {
			segments = segments[:FileTreeMaxDepth]
		}
		rendered := strings.Join(segments, "/")
		if !seen[rendered] {
			seen[rendered] = true
			entries = append(entries, rendered)
		}
	}

	sort.Strings(entries)

	if len(entries) > FileTreeMaxLines {
		entries = entries[:FileTreeMaxLines]
	}
	return entries
}
