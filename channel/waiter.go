// File: channel/waiter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parked-task bookkeeping shared by Channel and Signal. Waiters sit in a
// FIFO queue (github.com/eapache/queue) so wake-ups are strictly
// first-blocked-first-served; a cancelled waiter stays queued and is
// skipped lazily, which keeps timeout paths O(1).

package channel

import (
	"time"

	"github.com/eapache/queue"
)

// waiter represents one task parked on a channel or signal.
// data is the pending message for a blocked sender, or the destination
// slice for a blocked receiver; a signal waiter carries no data.
// delivered and cancelled are guarded by the owning primitive's lock.
type waiter struct {
	data      []byte
	done      chan struct{}
	delivered bool
	cancelled bool
}

func newWaiter(data []byte) *waiter {
	return &waiter{data: data, done: make(chan struct{})}
}

// popLive removes and returns the oldest non-cancelled waiter, or nil.
func popLive(q *queue.Queue) *waiter {
	for q.Length() > 0 {
		w := q.Remove().(*waiter)
		if !w.cancelled {
			return w
		}
	}
	return nil
}

// await blocks until the waiter is signaled or the budget elapses.
// Returns true when done fired first. A negative timeout blocks forever;
// the zero case never reaches here (try-paths fail before parking).
func (w *waiter) await(timeout time.Duration) bool {
	if timeout < 0 {
		<-w.done
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-w.done:
		return true
	case <-t.C:
		return false
	}
}
