package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// MaxFileSize is the maximum file size for read operations
const MaxFileSize = constants.MaxFileSize

// MaxSearchResults is the default cap on paths returned by Find.
const MaxSearchResults = 500

// blockedPaths are system directories that cannot be written
var blockedPaths = []string{
	"/etc/", "/usr/", "/bin/", "/sbin/", "/boot/",
	"/sys/", "/proc/", "/dev/", "/var/", "/lib/",
	"/System/", "/Library/", // macOS system paths
}

// FileTools implements FileSystem on the local disk.
type FileTools struct {
	// TempDir overrides os.TempDir for CreateTemp.
	TempDir string
	// MaxResults caps Find output. Zero means MaxSearchResults.
	MaxResults int
}

// FindResult holds the sorted paths kept by Find and how many matched in
// total.
type FindResult struct {
	Paths []string
	Total int
}

// Truncated reports whether matches were dropped.
func (r FindResult) Truncated() bool {
	return r.Total > len(r.Paths)
}

// NewFileTools creates a FileTools using the system temp directory.
func NewFileTools() *FileTools {
	return &FileTools{}
}

// IsPathSafe checks if a path is safe for write operations.
// Returns (safe, reason) where reason explains why the path is blocked.
func IsPathSafe(path string) (bool, string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, "invalid path"
	}

	// Resolve symlinks so /etc -> /private/etc on macOS is caught. A file
	// that does not exist yet is resolved through its parent.
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	} else if resolvedDir, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(resolvedDir, filepath.Base(absPath))
	}

	for _, blocked := range blockedPaths {
		if strings.HasPrefix(absPath, blocked) || strings.HasPrefix(absPath, "/private"+blocked) {
			return false, fmt.Sprintf("path %s is protected", blocked)
		}
	}
	return true, ""
}

// Find walks dir recursively and collects the files whose path relative to
// dir matches "**/"+pattern. All matches are sorted before the first
// MaxResults are kept. Returned paths are relative to the working directory
// when dir is ".", otherwise joined onto dir.
func (t *FileTools) Find(ctx context.Context, pattern, dir string) (FindResult, error) {
	if dir == "" {
		dir = "."
	}
	if !doublestar.ValidatePattern(pattern) {
		return FindResult{}, apperr.Errorf(apperr.InvalidArgument, "Invalid pattern: %s", pattern)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FindResult{}, apperr.Errorf(apperr.NotFound, "Directory not found: %s", dir)
		}
		return FindResult{}, apperr.New(apperr.Unknown, "find", err)
	}
	if !info.IsDir() {
		return FindResult{}, apperr.Errorf(apperr.InvalidArgument, "%s is not a directory", dir)
	}

	glob := pattern
	if !strings.HasPrefix(glob, "**/") {
		glob = "**/" + glob
	}

	var matches []string
	err = doublestar.GlobWalk(os.DirFS(dir), glob, func(p string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		matches = append(matches, filepath.Join(dir, filepath.FromSlash(p)))
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return FindResult{}, apperr.New(apperr.SubprocessFailure, "find", ctxErr)
		}
		return FindResult{}, apperr.New(apperr.Unknown, "find", err)
	}

	sort.Strings(matches)
	res := FindResult{Paths: matches, Total: len(matches)}
	if limit := t.maxResults(); len(matches) > limit {
		res.Paths = matches[:limit]
	}
	return res, nil
}

func (t *FileTools) maxResults() int {
	if t.MaxResults > 0 {
		return t.MaxResults
	}
	return MaxSearchResults
}

// Read returns the contents of path. Files larger than MaxFileSize are
// truncated.
func (t *FileTools) Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.Errorf(apperr.NotFound, "File not found: %s", path)
		}
		return "", apperr.New(apperr.Unknown, "read "+path, err)
	}
	if info.IsDir() {
		return "", apperr.Errorf(apperr.InvalidArgument, "%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", apperr.New(apperr.Unknown, "read "+path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize))
	if err != nil {
		return "", apperr.New(apperr.Unknown, "read "+path, err)
	}
	return string(data), nil
}

// Write creates or overwrites a file with the given content, creating
// parent directories as needed. System paths are refused.
func (t *FileTools) Write(path, content string) error {
	if safe, reason := IsPathSafe(path); !safe {
		return apperr.Errorf(apperr.InvalidArgument, "Blocked: %s", reason)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperr.New(apperr.Unknown, "create directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return apperr.New(apperr.Unknown, "write "+path, err)
	}
	return nil
}

// CreateTemp writes content to a new file named devos-*<suffix>.
func (t *FileTools) CreateTemp(content, suffix string) (string, error) {
	f, err := os.CreateTemp(t.TempDir, "devos-*"+suffix)
	if err != nil {
		return "", apperr.New(apperr.Unknown, "create temp file", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return "", apperr.New(apperr.Unknown, "write temp file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperr.New(apperr.Unknown, "close temp file", err)
	}
	return f.Name(), nil
}
