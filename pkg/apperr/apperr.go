// Package apperr classifies service errors so that HTTP handlers can map
// each failure mode to the right status code and message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

const (
	// KindInternal is the default for unclassified errors.
	KindInternal Kind = iota
	// KindUnauthorized means no valid caller identity was supplied.
	KindUnauthorized
	// KindNotFound means the record is absent or not owned by the caller.
	KindNotFound
	// KindValidation means required input was missing or malformed.
	KindValidation
	// KindPolicyViolation means the write targeted a field locked by the
	// record's current lifecycle state.
	KindPolicyViolation
	// KindExternalService means a downstream call (summarizer, object
	// store) failed.
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPolicyViolation:
		return "policy_violation"
	case KindExternalService:
		return "external_service"
	default:
		return "internal"
	}
}

// Error is a classified error with a user-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. errors.Is against the wrapped error
// still works through Unwrap.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Unauthorized(msg string) *Error    { return New(KindUnauthorized, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Validation(msg string) *Error      { return New(KindValidation, msg) }
func PolicyViolation(msg string) *Error { return New(KindPolicyViolation, msg) }
func ExternalService(msg string, err error) *Error {
	return Wrap(KindExternalService, msg, err)
}
func Internal(msg string, err error) *Error { return Wrap(KindInternal, msg, err) }

// KindOf extracts the Kind from an error chain. Unclassified errors are
// KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for a classified error, or a
// generic message for unclassified ones so internals never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// IsNotFound reports whether the error chain carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
