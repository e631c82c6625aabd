package extractor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	vjexec "github.com/ma-za-kpe/vibejudge/exec"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/parser"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// NCommits is the default commit history depth (N_commits in spec
// §4.2 step 10).
const NCommits = 100

// commitLogFormat produces one line per commit:
// hash\x1fshorthash\x1fauthor\x1funixtime\x1fsubject, newest first.
const commitLogFormat = `--pretty=format:%H%x1f%h%x1f%an%x1f%ct%x1f%s`

var commitLinePattern = `^(?P<hash>[0-9a-f]+)\x1f(?P<short>[0-9a-f]+)\x1f(?P<author>[^\x1f]*)\x1f(?P<ts>\d+)\x1f(?P<subject>.*)$`

// ListCommits returns up to limit entries from branch's history,
// newest first, with per-commit churn stats read from the same
// `git log --shortstat` invocation.
func (c Cloner) ListCommits(ctx context.Context, dir, branch string, limit int) ([]model.Commit, error) {
	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"log", branch, commitLogFormat, fmt.Sprintf("-n%d", limit), "--shortstat"},
		WorkDir: dir,
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, vjerr.New("extractor.ListCommits", vjerr.CodeTransient, "git log failed").WithCause(err)
	}
	if result.ExitCode != 0 {
		return nil, vjerr.New("extractor.ListCommits", vjerr.CodeTransient, string(result.Stderr))
	}

	return parseCommitLog(string(result.Stdout))
}

var shortstatPattern = `(?P<files>\d+) files? changed(?:, (?P<ins>\d+) insertions?\(\+\))?(?:, (?P<del>\d+) deletions?\(-\))?`

// parseCommitLog parses `git log --pretty=<commitLogFormat> --shortstat`
// output: each commit header line is followed by a blank line and an
// optional shortstat summary line before the next header.
func parseCommitLog(output string) ([]model.Commit, error) {
	lineParser, err := parser.NewLineParser(map[string]string{
		"commit":    commitLinePattern,
		"shortstat": shortstatPattern,
	})
	if err != nil {
		return nil, err
	}

	matches, err := lineParser.Parse([]byte(output))
	if err != nil {
		return nil, err
	}

	var commits []model.Commit
	var current *model.Commit

	for _, m := range matches {
		switch m["_pattern"] {
		case "commit":
			if current != nil {
				commits = append(commits, *current)
			}
			ts, _ := strconv.ParseInt(m["ts"], 10, 64)
			current = &model.Commit{
				Hash:             m["hash"],
				ShortHash:        m["short"],
				Author:           m["author"],
				CommitterAt:      time.Unix(ts, 0).UTC(),
				MessageFirstLine: truncateMessage(m["subject"]),
			}
		case "shortstat":
			if current == nil {
				continue
			}
			current.FilesChanged, _ = strconv.Atoi(m["files"])
			current.Insertions, _ = strconv.Atoi(m["ins"])
			current.Deletions, _ = strconv.Atoi(m["del"])
		}
	}
	if current != nil {
		commits = append(commits, *current)
	}

	return commits, nil
}

// MessageMaxChars caps a commit's first message line (spec §4.2 step
// 10).
const MessageMaxChars = 200

func truncateMessage(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= MessageMaxChars {
		return s
	}
	return s[:MessageMaxChars]
}
