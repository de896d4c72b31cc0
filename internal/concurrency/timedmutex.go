// File: internal/concurrency/timedmutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutual exclusion with bounded acquisition. sync.Mutex cannot fail a Lock
// after a budget, so the pool critical section uses a one-token channel:
// blocked acquirers suspend in the runtime without spinning and honor the
// library's Forever/NoWait timeout conventions.

package concurrency

import "time"

// TimedMutex is a mutual-exclusion lock whose Lock accepts a budget.
type TimedMutex struct {
	token chan struct{}
}

// NewTimedMutex returns an unlocked mutex.
func NewTimedMutex() *TimedMutex {
	m := &TimedMutex{token: make(chan struct{}, 1)}
	m.token <- struct{}{}
	return m
}

// Lock acquires the mutex within timeout. A negative timeout blocks
// forever; zero attempts a single non-blocking acquisition. Returns false
// when the budget elapses first.
func (m *TimedMutex) Lock(timeout time.Duration) bool {
	select {
	case <-m.token:
		return true
	default:
	}
	if timeout == 0 {
		return false
	}
	if timeout < 0 {
		<-m.token
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-m.token:
		return true
	case <-t.C:
		return false
	}
}

// Unlock releases the mutex. Unlocking an unheld mutex is a programming
// error and panics, matching sync.Mutex behavior.
func (m *TimedMutex) Unlock() {
	select {
	case m.token <- struct{}{}:
	default:
		panic("concurrency: unlock of unlocked TimedMutex")
	}
}
