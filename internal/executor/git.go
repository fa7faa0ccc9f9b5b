package executor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// GitStatus is the porcelain status of a working tree.
type GitStatus struct {
	// Branch is empty when HEAD is detached or the branch query failed.
	Branch string
	// Changes holds one porcelain line per modified path.
	Changes []string
}

// Clean reports whether the working tree has no changes.
func (s *GitStatus) Clean() bool {
	return len(s.Changes) == 0
}

// Git runs git subprocesses with a per-call timeout.
type Git struct {
	Binary  string
	Timeout time.Duration
}

// NewGit creates a Git client using the git binary on PATH.
func NewGit() *Git {
	return &Git{Binary: "git", Timeout: constants.DefaultCommandTimeout}
}

// Status runs `git status --porcelain` and `git branch --show-current`
// against path concurrently.
func (g *Git) Status(ctx context.Context, path string) (*GitStatus, error) {
	if path == "" {
		path = "."
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Errorf(apperr.NotFound, "Path not found: %s", path)
		}
		return nil, apperr.New(apperr.Unknown, "git status", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	var status GitStatus
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		out, err := g.run(egCtx, path, "status", "--porcelain")
		if err != nil {
			return err
		}
		status.Changes = nonEmptyLines(out)
		return nil
	})
	eg.Go(func() error {
		// Branch lookup failures leave Branch empty.
		if out, err := g.run(egCtx, path, "branch", "--show-current"); err == nil {
			status.Branch = strings.TrimSpace(out)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, g.classify(path, err)
	}
	return &status, nil
}

// gitError carries the stderr of a failed git invocation.
type gitError struct {
	stderr string
	err    error
}

func (e *gitError) Error() string {
	if e.stderr != "" {
		return e.stderr
	}
	return e.err.Error()
}

func (e *gitError) Unwrap() error { return e.err }

func (g *Git) run(ctx context.Context, path string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.Binary, append([]string{"-C", path}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &gitError{stderr: strings.TrimSpace(stderr.String()), err: err}
	}
	return stdout.String(), nil
}

func (g *Git) classify(path string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Errorf(apperr.SubprocessFailure, "git status timed out after %s", g.Timeout)
	case errors.Is(err, exec.ErrNotFound):
		return apperr.Errorf(apperr.SubprocessFailure, "git is not installed")
	case strings.Contains(strings.ToLower(err.Error()), "not a git repository"):
		return apperr.Errorf(apperr.NotFound, "Not a git repository: %s", path)
	}
	return apperr.New(apperr.SubprocessFailure, "git status", err)
}

func nonEmptyLines(s string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}
