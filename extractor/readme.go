package extractor

import (
	"os"
	"path/filepath"
)

// ExtractReadme finds the first conventionally-named README in
// worktreeDir and returns its (possibly truncated) content. An empty
// string with ok=false is returned if no README exists.
func ExtractReadme(worktreeDir string) (content string, truncated bool, ok bool) {
	for _, name := range conventionalReadmeNames {
		data, err := os.ReadFile(filepath.Join(worktreeDir, name))
		if err != nil {
			continue
		}
		out, wasTruncated := TruncateReadme(string(data))
		return out, wasTruncated, true
	}
	return "", false, false
}
