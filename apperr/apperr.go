// Package apperr defines the error kinds the service reports to callers:
// validation, not-found, conflict and storage. Handlers map kinds to HTTP
// status codes; everything else wraps a kind so errors.Is keeps working
// across layers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Wrap them via the constructors below.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage")
)

// Error carries a kind sentinel, a human-readable message and an optional
// underlying cause.
type Error struct {
	kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the kind sentinel, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or out-of-range input.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a state-machine violation.
func Conflict(format string, args ...interface{}) error {
	return &Error{kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying persistence failure.
func Storage(err error, format string, args ...interface{}) error {
	return &Error{kind: ErrStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsStorage(err error) bool    { return errors.Is(err, ErrStorage) }
