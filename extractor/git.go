package extractor

import (
	"context"
	"fmt"
	"time"

	vjexec "github.com/ma-za-kpe/vibejudge/exec"
	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// CloneDeadline is the full-clone timeout from spec §4.2 step 3.
const CloneDeadline = 120 * time.Second

// ShallowDepth is the depth used for the shallow-clone fallback.
const ShallowDepth = 100

// LowThroughputBytesPerSec and LowThroughputWindow describe a sustained
// slow transfer (spec §4.2 step 3). No code in this package reads them:
// CloneFull and CloneShallow do not measure transfer throughput, and a
// slow clone runs until CloneDeadline.
const (
	LowThroughputBytesPerSec = 1024
	LowThroughputWindow      = 30 * time.Second
)

// Cloner runs git commands against an ephemeral worktree directory. It
// wraps the donor's exec.Run subprocess helper, the same pattern used
// for invoking any external binary with a deadline.
type Cloner struct {
	// GitBinary is the git executable to invoke. Defaults to "git".
	GitBinary string
}

func (c Cloner) binary() string {
	if c.GitBinary == "" {
		return "git"
	}
	return c.GitBinary
}

// CloneFull clones the full history of ref into dir within
// CloneDeadline. Interactive credential prompts are disabled so a
// private or nonexistent repository fails fast instead of hanging.
func (c Cloner) CloneFull(ctx context.Context, ref RepoRef, dir string) error {
	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"clone", "--no-single-branch", ref.CloneURL(), dir},
		Env:     []string{"GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=echo"},
		Timeout: CloneDeadline,
	})
	if err != nil {
		return vjerr.New("extractor.CloneFull", vjerr.CodeTransient, "git clone failed to execute").WithCause(err)
	}
	if result.ExitCode != 0 {
		return vjerr.New("extractor.CloneFull", vjerr.CodeTransient, fmt.Sprintf("git clone exited %d: %s", result.ExitCode, string(result.Stderr))).WithCause(vjerr.ErrNotAccessible)
	}
	return nil
}

// CloneShallow clones only the default branch to ShallowDepth, the
// fallback path used when a full clone exceeds the disk budget or times
// out (spec §4.2 step 4).
func (c Cloner) CloneShallow(ctx context.Context, ref RepoRef, dir string) error {
	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"clone", "--depth", fmt.Sprintf("%d", ShallowDepth), ref.CloneURL(), dir},
		Env:     []string{"GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=echo"},
		Timeout: CloneDeadline,
	})
	if err != nil {
		return vjerr.New("extractor.CloneShallow", vjerr.CodeTransient, "shallow clone failed to execute").WithCause(err)
	}
	if result.ExitCode != 0 {
		return vjerr.New("extractor.CloneShallow", vjerr.CodeResource, fmt.Sprintf("shallow clone exited %d: %s", result.ExitCode, string(result.Stderr))).WithCause(vjerr.ErrCloneTimeout)
	}
	return nil
}

// branchCandidates is the resolution order for the default branch
// (spec §4.2 step 5).
var branchCandidates = []string{"main", "master", "develop"}

// ResolveDefaultBranch determines the default branch of the cloned
// worktree at dir: the first existing of main/master/develop, else the
// first local branch listed by `git branch`. Returns ("", false) if no
// branch exists at all (an empty repository).
func (c Cloner) ResolveDefaultBranch(ctx context.Context, dir string) (string, bool, error) {
	for _, candidate := range branchCandidates {
		result, err := vjexec.Run(ctx, vjexec.Config{
			Command: c.binary(),
			Args:    []string{"rev-parse", "--verify", candidate},
			WorkDir: dir,
			Timeout: 10 * time.Second,
		})
		if err == nil && result.ExitCode == 0 {
			return candidate, true, nil
		}
	}

	result, err := vjexec.Run(ctx, vjexec.Config{
		Command: c.binary(),
		Args:    []string{"branch", "--format=%(refname:short)"},
		WorkDir: dir,
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return "", false, vjerr.New("extractor.ResolveDefaultBranch", vjerr.CodeTransient, "git branch failed").WithCause(err)
	}
	if result.ExitCode != 0 || len(result.Stdout) == 0 {
		return "", false, nil
	}

	first := firstLine(string(result.Stdout))
	if first == "" {
		return "", false, nil
	}
	return first, true, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
