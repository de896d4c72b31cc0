// File: selector/selector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Selector multiplexes one consumer's wait across several channels and
// binary signals. Members push themselves into the selector's buffered
// event channel when they transition to ready, so service follows
// readiness arrival order; a registration-order probe backs the events up
// (ties discovered together resolve by registration order, and dropped
// edges can never strand a ready member).

package selector

import (
	"sync"
	"time"

	"github.com/momentics/primkit/api"
)

// Selector waits on a fixed-maximum set of selectable members.
// Membership is not safely mutable concurrently with an in-progress Wait.
type Selector struct {
	mu      sync.Mutex
	members []api.Selectable
	max     int
	events  chan api.Selectable
}

// New creates a selector accepting at most maxMembers members.
func New(maxMembers int) *Selector {
	if maxMembers < 1 {
		maxMembers = 1
	}
	return &Selector{
		members: make([]api.Selectable, 0, maxMembers),
		max:     maxMembers,
		// One pending edge per member suffices: edges are coalesced
		// per-member (fired on the not-ready to ready transition only)
		// and the probe covers any dropped beyond that.
		events: make(chan api.Selectable, maxMembers),
	}
}

// Add registers a member. A member already registered with any selector is
// rejected; membership in several selectors at once is not a supported
// configuration.
func (s *Selector) Add(m api.Selectable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.members) >= s.max {
		return api.NewError(api.ErrCodeCapacityExceeded, "selector: membership full").
			WithContext("max", s.max)
	}
	if err := m.AttachSelector(s.events); err != nil {
		return err
	}
	s.members = append(s.members, m)
	return nil
}

// Len returns the current member count.
func (s *Selector) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// probe returns the first ready member in registration order.
func (s *Selector) probe() api.Selectable {
	s.mu.Lock()
	members := s.members
	s.mu.Unlock()
	for _, m := range members {
		if m.Ready() {
			return m
		}
	}
	return nil
}

// drainEvents pops queued readiness events in arrival order, skipping
// members that were drained since their edge fired.
func (s *Selector) drainEvents() api.Selectable {
	for {
		select {
		case m := <-s.events:
			if m.Ready() {
				return m
			}
		default:
			return nil
		}
	}
}

// Wait blocks until at least one member is ready or the budget elapses,
// and returns exactly one ready member. It reports readiness only; the
// caller performs the non-blocking receive or consume on the result.
// Draining the returned member before the next Wait yields round-robin
// service across members that are kept ready.
func (s *Selector) Wait(timeout time.Duration) (api.Selectable, error) {
	deadline, bounded := api.Deadline(timeout)
	for {
		if m := s.drainEvents(); m != nil {
			return m, nil
		}
		if m := s.probe(); m != nil {
			return m, nil
		}
		remaining := api.Remaining(deadline, bounded)
		if bounded && remaining == 0 {
			return nil, api.NewError(api.ErrCodeTimeout, "selector: no member ready")
		}
		if !bounded {
			m := <-s.events
			if m.Ready() {
				return m, nil
			}
			continue
		}
		t := time.NewTimer(remaining)
		select {
		case m := <-s.events:
			t.Stop()
			if m.Ready() {
				return m, nil
			}
		case <-t.C:
			// Final probe closes the race between a member's edge and
			// the timer firing.
			if m := s.probe(); m != nil {
				return m, nil
			}
			return nil, api.NewError(api.ErrCodeTimeout, "selector: no member ready")
		}
	}
}

// Close detaches every member, leaving them reusable elsewhere.
func (s *Selector) Close() {
	s.mu.Lock()
	members := s.members
	s.members = nil
	s.mu.Unlock()
	for _, m := range members {
		m.DetachSelector()
	}
}
