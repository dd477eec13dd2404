// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-spsc.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidCapacity      = fmt.Errorf("capacity must be a power of two greater than one")
	ErrInvalidArgument      = fmt.Errorf("invalid argument")
	ErrAffinityNotSupported = fmt.Errorf("CPU affinity not supported")
	ErrAffinityRestore      = fmt.Errorf("restoring CPU affinity failed")
	ErrConcurrentMisuse     = fmt.Errorf("ring accessed by more than one producer or consumer")
	ErrLoopStopped          = fmt.Errorf("event loop is stopped")
	ErrLoopAlreadyRunning   = fmt.Errorf("event loop is already running")
	ErrScenarioUnknown      = fmt.Errorf("unknown benchmark scenario")
	ErrCorrectnessViolation = fmt.Errorf("correctness check failed")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeInvalidArgument ErrorCode = iota + 1
	ErrCodeInvalidCapacity
	ErrCodeNotSupported
	ErrCodeMisuse
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap returns the sentinel this error was built from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap builds a structured error around a sentinel so errors.Is keeps working.
func Wrap(code ErrorCode, sentinel error) *Error {
	e := NewError(code, sentinel.Error())
	e.cause = sentinel
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
