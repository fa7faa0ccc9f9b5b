// Package apperr defines the error kinds surfaced to the user. Every
// collaborator failure is wrapped in an *Error so the renderer can title the
// error box without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is used for errors that were never classified.
	Unknown Kind = iota
	// Transport covers network, timeout, HTTP status and decode failures.
	Transport
	// NotFound covers missing files, processes and repositories.
	NotFound
	// InvalidArgument covers malformed commands and out-of-range values.
	InvalidArgument
	// SubprocessFailure covers child processes that could not run or exited non-zero.
	SubprocessFailure
	// Config covers settings and environment problems.
	Config
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "Transport"
	case NotFound:
		return "NotFound"
	case InvalidArgument:
		return "InvalidArgument"
	case SubprocessFailure:
		return "SubprocessFailure"
	case Config:
		return "Config"
	default:
		return "Unknown"
	}
}

// Title is the heading shown above an error of this kind.
func (k Kind) Title() string {
	switch k {
	case Transport:
		return "Connection Error"
	case NotFound:
		return "Not Found"
	case InvalidArgument:
		return "Invalid Input"
	case SubprocessFailure:
		return "Command Failed"
	case Config:
		return "Configuration Error"
	default:
		return "Error"
	}
}

// Error is a classified failure. Op names the operation that failed, e.g.
// "git status" or "complete".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string with no operation
// prefix. The message is shown to the user as-is.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
