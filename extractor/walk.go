package extractor

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// WalkedFile is one non-ignored file discovered under a worktree root.
type WalkedFile struct {
	RelPath   string
	AbsPath   string
	LineCount int
	SizeBytes int64
}

// WalkWorktree walks root, skipping the fixed ignore set, and returns
// every file along with its line count (spec §4.2 step 6).
func WalkWorktree(root string) ([]WalkedFile, error) {
	var out []WalkedFile

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			if IsIgnoredDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if isBinaryLike(info.Name()) {
			return nil
		}

		lineCount, err := countLines(path)
		if err != nil {
			// Unreadable files (permissions, broken symlinks) are
			// skipped rather than failing the whole walk.
			return nil
		}

		out = append(out, WalkedFile{
			RelPath:   filepath.ToSlash(rel),
			AbsPath:   path,
			LineCount: lineCount,
			SizeBytes: info.Size(),
		})
		return nil
	})

	return out, err
}

var binaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".ico": true, ".pdf": true, ".zip": true, ".tar": true, ".gz": true,
	".woff": true, ".woff2": true, ".ttf": true, ".mp4": true, ".mp3": true,
}

func isBinaryLike(name string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(name))]
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	count := 0
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
