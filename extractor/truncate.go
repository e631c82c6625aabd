package extractor

import "strings"

// LMax is the line cap applied to truncated source files.
const LMax = 200

// TruncateLineThreshold separates the two over-LMax bands TruncateSource
// names; files in either band are truncated to LMax lines alike.
const TruncateLineThreshold = 5000

// truncationMarker is appended to truncated file content.
const truncationMarker = "\n... [truncated]"

// TruncateSource applies the file-content truncation rule from spec
// §4.2 step 7: files over TruncateLineThreshold lines, and files between
// LMax and TruncateLineThreshold, are both truncated to the first LMax
// lines with an explicit marker. Files at or under LMax lines pass
// through unchanged.
func TruncateSource(content string, lineCount int) (string, bool) {
	if lineCount <= LMax {
		return content, false
	}

	lines := strings.Split(content, "\n")
	if len(lines) > LMax {
		lines = lines[:LMax]
	}
	return strings.Join(lines, "\n") + truncationMarker, true
}

// ReadmeMaxChars is the character cap applied to extracted README
// content.
const ReadmeMaxChars = 12000

const readmeTruncationMarker = "\n... [truncated]"

// TruncateReadme applies the 12000-character README truncation rule.
func TruncateReadme(content string) (string, bool) {
	if len(content) <= ReadmeMaxChars {
		return content, false
	}
	return content[:ReadmeMaxChars] + readmeTruncationMarker, true
}

// conventionalReadmeNames lists accepted README filenames, checked in
// order (the first existing one wins).
var conventionalReadmeNames = []string{
	"README.md", "README.MD", "readme.md", "README.rst", "README.txt", "README",
}
