// File: channel/deadline.go
// Author: momentics <momentics@gmail.com>
//
// Deadline posting: the channel-native replacement for software-timer
// callbacks. Instead of a hidden timer-service task mutating shared state
// from a callback, a deadline post is an ordinary send executed at a
// computed instant, flowing through the channel's normal locking.

package channel

import (
	"sync"
	"time"
)

// DeadlinePost is a pending scheduled send.
type DeadlinePost struct {
	timer *time.Timer
	mu    sync.Mutex
	done  bool
	err   error
}

// PostAfter sends msg on ch once d elapses. sendBudget bounds the send
// itself; a full channel at the deadline yields a Timeout recorded on the
// post, never an internal retry.
func PostAfter(ch *Channel, msg []byte, d time.Duration, sendBudget time.Duration) *DeadlinePost {
	p := &DeadlinePost{}
	buf := append([]byte(nil), msg...)
	p.timer = time.AfterFunc(d, func() {
		err := ch.Send(buf, sendBudget)
		p.mu.Lock()
		p.done = true
		p.err = err
		p.mu.Unlock()
	})
	return p
}

// PostAt is PostAfter against an absolute deadline. A past deadline posts
// immediately.
func PostAt(ch *Channel, msg []byte, at time.Time, sendBudget time.Duration) *DeadlinePost {
	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	return PostAfter(ch, msg, d, sendBudget)
}

// Stop cancels the post if it has not fired. It reports whether the
// cancellation prevented the send.
func (p *DeadlinePost) Stop() bool {
	return p.timer.Stop()
}

// Done reports whether the send attempt ran, and its outcome.
func (p *DeadlinePost) Done() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.err
}
