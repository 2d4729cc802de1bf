package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for an acquisition run. Strategies, repositories and the
// download pipeline classify their failures into one of these kinds so the
// retry and fallback layers can decide what to do without inspecting
// transport details.
var (
	// ErrNotFound: the identifier does not resolve to a profile, or a row is
	// absent where one was required. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrBlocked: the remote denied access or rate-limited us (401/403/429).
	// Never retried; retrying risks further blocking.
	ErrBlocked = errors.New("blocked by remote")

	// ErrMalformed: the response shape drifted or a required field is
	// missing. Triggers strategy fallback, never a retry.
	ErrMalformed = errors.New("malformed response")

	// ErrTransient: connection-level failure or timeout. Retried with
	// backoff.
	ErrTransient = errors.New("transient network error")

	// ErrPersistence: a transaction or storage failure. Aborts the
	// reconciling phase; the whole run is safe to repeat later.
	ErrPersistence = errors.New("persistence failure")
)

// Error carries a message and an optional wrapped cause, usually one of the
// sentinels above.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsNotFound returns true if the error chain contains ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBlocked returns true if the error chain contains ErrBlocked
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}

// IsMalformed returns true if the error chain contains ErrMalformed
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsTransient returns true if the error chain contains ErrTransient
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsRetryable reports whether the error is worth retrying. Only transient
// network failures qualify; everything else fails fast so the retry budget
// is not burned on identifiers that will never resolve.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// FromStatusCode maps an HTTP status to the taxonomy. A zero status means
// the request never completed.
func FromStatusCode(status int) error {
	switch {
	case status == 0:
		return ErrTransient
	case status == 404:
		return ErrNotFound
	case status == 401 || status == 403 || status == 429:
		return ErrBlocked
	case status >= 500:
		return ErrTransient
	default:
		return ErrMalformed
	}
}
