// Package failure defines the typed errors returned by the testkit resources.
package failure

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind classifies where a failure came from.
type Kind int

const (
	Filesystem Kind = iota + 1
	Descriptor
	Regex
	Environment
)

func (k Kind) String() string {
	switch k {
	case Filesystem:
		return "filesystem"
	case Descriptor:
		return "descriptor"
	case Regex:
		return "regex"
	case Environment:
		return "environment"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a failure kind.
var (
	ErrFilesystem  = &Error{Kind: Filesystem}
	ErrDescriptor  = &Error{Kind: Descriptor}
	ErrRegex       = &Error{Kind: Regex}
	ErrEnvironment = &Error{Kind: Environment}
)

// Error is a failure of one operation on an OS-level resource.
type Error struct {
	Kind Kind
	Op   string
	// Path is the file path, descriptor number, pattern or variable name the
	// operation was applied to.
	Path string
	Err  error
}

// New wraps err as a failure of kind k.
func New(k Kind, op, path string, err error) *Error {
	return &Error{Kind: k, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	if e.Path != "" {
		msg += fmt.Sprintf(" [%s]", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// Errno returns the system errno carried by the failure, or 0 when the cause
// was not a system call.
func (e *Error) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}

// KindOf returns the kind of the first failure in err's chain.
func KindOf(err error) (Kind, bool) {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}
