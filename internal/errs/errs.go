// Package errs classifies errors crossing the lifecycle boundary into the
// four retryability classes callers act on, and sanitizes messages before
// they leave the process.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers deciding whether to retry.
type Kind int

const (
	// KindValidation marks malformed input. Not retryable.
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing row or file. Not retryable.
	KindNotFound
	// KindStorage marks a transient transaction or connection failure. Retryable.
	KindStorage
	// KindInternal marks an unexpected failure. Retryable, conservatively.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error is a classified error. Msg is already sanitized; Err retains the
// original cause for logging and errors.Is/As inspection.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return Sanitize(e.Err.Error())
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a sanitized message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: Sanitize(msg)}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap classifies an underlying error, prefixing a sanitized message.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: Sanitize(fmt.Sprintf("%s: %v", msg, err)), Err: err}
}

// KindOf returns the classification of err, defaulting to KindInternal for
// errors that never passed through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Retryable reports whether a caller may usefully retry after err.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == KindStorage || k == KindInternal
}
