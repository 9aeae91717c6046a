// File: api/errors.go
// License: Apache-2.0
//
// Structured error kinds shared by all storage variants.

package api

import (
	"errors"
	"fmt"
)

// ErrorCode enumerates the failure kinds a storage operation may return.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota

	// ErrCodeOutOfMemory: the underlying dynamic source is exhausted
	// (heap and shared storage only).
	ErrCodeOutOfMemory

	// ErrCodeInsufficientCapacity: the request exceeds a fixed ceiling the
	// variant cannot move past (inline and pinned storage, or a configured
	// heap/shared byte budget).
	ErrCodeInsufficientCapacity

	// ErrCodeInvalidHandle: the handle is foreign to this instance, already
	// released, or stale after a relocation.
	ErrCodeInvalidHandle

	// ErrCodeInvalidArgument: malformed request, e.g. a shrink target above
	// the current capacity or a zero/non-power-of-two alignment.
	ErrCodeInvalidArgument
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeOutOfMemory:
		return "out of memory"
	case ErrCodeInsufficientCapacity:
		return "insufficient capacity"
	case ErrCodeInvalidHandle:
		return "invalid handle"
	case ErrCodeInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// Canonical sentinels for errors.Is matching. Storage implementations return
// richer *Error values carrying context; the sentinels match by code.
var (
	ErrOutOfMemory          = &Error{Code: ErrCodeOutOfMemory, Message: "out of memory"}
	ErrInsufficientCapacity = &Error{Code: ErrCodeInsufficientCapacity, Message: "insufficient capacity"}
	ErrInvalidHandle        = &Error{Code: ErrCodeInvalidHandle, Message: "invalid handle"}
	ErrInvalidArgument      = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
)

// Error is a structured storage error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is matches any *Error carrying the same code, so
// errors.Is(err, ErrInvalidHandle) works regardless of message or context.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a structured error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns ErrCodeOK for nil and for errors that are not storage errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeOK
}
