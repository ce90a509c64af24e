// Package fault defines the structured error kinds shared by all engine
// components. Tool handlers render these into client-visible error text;
// nothing above this package inspects raw wrapped errors directly.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a query failure.
type Kind int

const (
	// PathViolation means the requested path resolves outside the sandbox root.
	PathViolation Kind = iota + 1
	// NotFound means the target file or directory does not exist.
	NotFound
	// TooLarge means the file exceeds the configured size ceiling.
	TooLarge
	// Decode means the content is binary or uses an unsupported encoding.
	Decode
	// InvalidPattern means a search expression failed to compile.
	InvalidPattern
	// Unsupported means no analyzer strategy exists for the language.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case PathViolation:
		return "path violation"
	case NotFound:
		return "not found"
	case TooLarge:
		return "too large"
	case Decode:
		return "decode error"
	case InvalidPattern:
		return "invalid pattern"
	case Unsupported:
		return "unsupported language"
	default:
		return "unknown"
	}
}

// Error carries a failure kind plus the offending path or pattern.
type Error struct {
	Kind Kind
	Path string // path or pattern the failure refers to
	Err  error  // optional underlying cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a fault of the given kind for a path or pattern.
func New(kind Kind, path string) *Error {
	return &Error{Kind: kind, Path: path}
}

// Wrap builds a fault that preserves the underlying cause.
func Wrap(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Is reports whether err is (or wraps) a fault of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// KindOf extracts the kind from err, or zero if err is not a fault.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
