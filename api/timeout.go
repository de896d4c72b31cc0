// File: api/timeout.go
// Author: momentics <momentics@gmail.com>
//
// Timeout conventions shared by every blocking operation in the library.

package api

import "time"

// Every blocking operation accepts a time.Duration budget with two reserved
// extremes. There is no separate cancellation token; NoWait emulates
// try-semantics and cooperative cancellation layers above this core.
const (
	// Forever blocks until the operation resolves.
	Forever time.Duration = -1

	// NoWait returns immediately; the operation either resolves on the
	// fast path or fails with ErrTimeout (ErrLockTimeout for lock waits).
	NoWait time.Duration = 0
)

// Deadline converts a timeout into an absolute deadline. The second return
// is false for Forever, meaning no deadline applies.
func Deadline(timeout time.Duration) (time.Time, bool) {
	if timeout < 0 {
		return time.Time{}, false
	}
	return time.Now().Add(timeout), true
}

// Remaining computes the budget left until deadline. hasDeadline follows the
// Deadline convention; without a deadline the result is Forever.
func Remaining(deadline time.Time, hasDeadline bool) time.Duration {
	if !hasDeadline {
		return Forever
	}
	d := time.Until(deadline)
	if d < 0 {
		return 0
	}
	return d
}
