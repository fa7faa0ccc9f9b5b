// Package executor wraps the local operating system: files, processes and
// git. Every operation returns an *apperr.Error on failure and bounds
// subprocesses with a timeout.
package executor

import (
	"context"
)

// FileSystem finds, reads and writes local files.
type FileSystem interface {
	// Find returns the sorted paths below dir whose names match the glob
	// pattern, capped, with the total number of matches.
	Find(ctx context.Context, pattern, dir string) (FindResult, error)

	// Read returns file contents, truncated to MaxFileSize.
	Read(path string) (string, error)

	// Write creates or overwrites path with content.
	Write(path, content string) error

	// CreateTemp writes content to a new temporary file and returns its path.
	CreateTemp(content, suffix string) (string, error)
}

// ProcessManager lists, launches and terminates applications.
type ProcessManager interface {
	// List returns running processes sorted by name.
	List(ctx context.Context) ([]ProcessInfo, error)

	// Open launches the named application.
	Open(ctx context.Context, name string) error

	// Kill terminates every process with the given name and returns how
	// many were signalled.
	Kill(ctx context.Context, name string) (int, error)
}

// GitClient reads repository state.
type GitClient interface {
	Status(ctx context.Context, path string) (*GitStatus, error)
}

var (
	_ FileSystem     = (*FileTools)(nil)
	_ ProcessManager = (*Processes)(nil)
	_ GitClient      = (*Git)(nil)
)
