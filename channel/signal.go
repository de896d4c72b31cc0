// File: channel/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Binary signal: the selector-compatible analog of a binary semaphore.
// Set latches readiness; exactly one taker consumes it. Repeated Set
// while already set does not accumulate.

package channel

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/primkit/api"
)

// Signal is a latched binary event usable standalone or inside a selector.
type Signal struct {
	mu      sync.Mutex
	set     bool
	waiters *queue.Queue          // *waiter, arrival order
	notify  chan<- api.Selectable // selector edge, nil when unbound
}

// NewSignal returns a signal in the cleared state.
func NewSignal() *Signal {
	return &Signal{waiters: queue.New()}
}

// Set latches the signal. If a task is blocked in Wait, the oldest one
// consumes the signal immediately and the latch stays clear.
func (s *Signal) Set() {
	s.mu.Lock()
	if w := popLive(s.waiters); w != nil {
		w.delivered = true
		close(w.done)
		s.mu.Unlock()
		return
	}
	if !s.set {
		s.set = true
		if s.notify != nil {
			select {
			case s.notify <- s:
			default:
			}
		}
	}
	s.mu.Unlock()
}

// TryConsume clears and returns the latch state. This is the non-blocking
// consume a selector caller performs after Wait reports readiness.
func (s *Signal) TryConsume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		s.set = false
		return true
	}
	return false
}

// Wait blocks until the signal is consumed by this caller or the budget
// elapses.
func (s *Signal) Wait(timeout time.Duration) error {
	s.mu.Lock()
	if s.set {
		s.set = false
		s.mu.Unlock()
		return nil
	}
	if timeout == 0 {
		s.mu.Unlock()
		return api.NewError(api.ErrCodeTimeout, "signal: not set")
	}
	w := newWaiter(nil)
	s.waiters.Add(w)
	s.mu.Unlock()

	if w.await(timeout) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w.delivered {
		return nil
	}
	w.cancelled = true
	return api.NewError(api.ErrCodeTimeout, "signal: wait timed out")
}

// Ready implements api.Selectable.
func (s *Signal) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// AttachSelector implements api.Selectable.
func (s *Signal) AttachSelector(notify chan<- api.Selectable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notify != nil {
		return api.NewError(api.ErrCodeAlreadyRegistered, "signal: already in a selector")
	}
	s.notify = notify
	if s.set {
		select {
		case notify <- s:
		default:
		}
	}
	return nil
}

// DetachSelector implements api.Selectable.
func (s *Signal) DetachSelector() {
	s.mu.Lock()
	s.notify = nil
	s.mu.Unlock()
}

var _ api.Selectable = (*Signal)(nil)
