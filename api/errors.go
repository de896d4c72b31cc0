// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the primkit library.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the library. Callers match them with errors.Is.
var (
	// ErrExhausted reports a pool with no free blocks. Expected under load
	// and always recoverable; callers fall back to a larger pool or a
	// general allocator.
	ErrExhausted = errors.New("pool exhausted")

	// ErrCorruptionDetected reports a block whose state tag or owning pool
	// does not match at free time (use-after-free or double-free by some
	// caller). The block is left out of the free list.
	ErrCorruptionDetected = errors.New("block corruption detected")

	// ErrTimeout reports that a blocking wait did not resolve within the
	// caller-specified budget. Never retried internally.
	ErrTimeout = errors.New("operation timeout")

	// ErrLockTimeout reports that an internal critical-section lock could
	// not be acquired in time. Callers treat it like ErrTimeout.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrCapacityExceeded reports a selector registration beyond the fixed
	// membership limit. A setup-time error, not retried.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrAllocationFailed reports that backing memory for a pool or channel
	// could not be reserved at creation time.
	ErrAllocationFailed = errors.New("backing allocation failed")

	// ErrAlreadyRegistered reports an attempt to add a member to a second
	// selector. One member belongs to at most one selector.
	ErrAlreadyRegistered = errors.New("member already registered")

	// ErrPoolBusy reports a teardown attempt while blocks are outstanding.
	ErrPoolBusy = errors.New("pool has outstanding blocks")

	// ErrClosed reports an operation against a torn-down component.
	ErrClosed = errors.New("component is closed")

	// ErrInvalidArgument reports malformed configuration or message sizing.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsExhausted reports whether err is a pool-exhaustion result.
func IsExhausted(err error) bool { return errors.Is(err, ErrExhausted) }

// IsTimeout reports whether err is a blocking-wait or lock timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrLockTimeout)
}

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeExhausted
	ErrCodeCorruption
	ErrCodeTimeout
	ErrCodeLockTimeout
	ErrCodeCapacityExceeded
	ErrCodeAllocationFailed
	ErrCodeAlreadyRegistered
	ErrCodeBusy
	ErrCodeClosed
	ErrCodeInvalidArgument
	ErrCodeInternal
)

// sentinelOf maps codes back to the matching sentinel so that wrapped
// structured errors still satisfy errors.Is against the taxonomy.
func sentinelOf(code ErrorCode) error {
	switch code {
	case ErrCodeExhausted:
		return ErrExhausted
	case ErrCodeCorruption:
		return ErrCorruptionDetected
	case ErrCodeTimeout:
		return ErrTimeout
	case ErrCodeLockTimeout:
		return ErrLockTimeout
	case ErrCodeCapacityExceeded:
		return ErrCapacityExceeded
	case ErrCodeAllocationFailed:
		return ErrAllocationFailed
	case ErrCodeAlreadyRegistered:
		return ErrAlreadyRegistered
	case ErrCodeBusy:
		return ErrPoolBusy
	case ErrCodeClosed:
		return ErrClosed
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	default:
		return nil
	}
}

// Error represents a structured error with code and context.
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

// Unwrap exposes the sentinel matching the error code.
func (e *Error) Unwrap() error {
	return sentinelOf(e.Code)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
