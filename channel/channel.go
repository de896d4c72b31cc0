// File: channel/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity FIFO channel of fixed-size messages. One contiguous
// arena backs the ring, so a message is copied in on send and copied out
// on receive; the channel owns it in between. Delivery order is global
// FIFO: ring contents first, then blocked senders in the order they
// parked. Exactly one sender and one receiver are woken per transition.

package channel

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/primkit/api"
)

// Channel is a bounded multi-producer/multi-consumer message queue.
// Capacity and message size are fixed at creation; growth is unsupported
// so worst-case memory and backpressure stay calculable.
type Channel struct {
	mu       sync.Mutex
	buf      []byte
	msgSize  int
	capacity int
	head     int
	count    int

	sendQ *queue.Queue // *waiter, arrival order
	recvQ *queue.Queue // *waiter, arrival order

	notify chan<- api.Selectable // selector edge, nil when unbound

	peakLen      int
	totalSent    uint64
	totalRecvd   uint64
	sendTimeouts uint64
	recvTimeouts uint64
}

// New creates a channel holding up to capacity messages of msgSize bytes.
// The full ring arena is reserved immediately.
func New(capacity, msgSize int) (*Channel, error) {
	if capacity <= 0 || msgSize <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "channel: capacity and message size must be positive")
	}
	return &Channel{
		buf:      make([]byte, capacity*msgSize),
		msgSize:  msgSize,
		capacity: capacity,
		sendQ:    queue.New(),
		recvQ:    queue.New(),
	}, nil
}

// MsgSize returns the fixed message size in bytes.
func (c *Channel) MsgSize() int { return c.msgSize }

// Cap returns the fixed capacity.
func (c *Channel) Cap() int { return c.capacity }

// Len returns the current queued-message count.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// slot returns the ring storage for logical position i (0 = oldest).
func (c *Channel) slot(i int) []byte {
	off := ((c.head + i) % c.capacity) * c.msgSize
	return c.buf[off : off+c.msgSize]
}

// enqueueLocked appends msg at the ring tail. Caller holds mu.
func (c *Channel) enqueueLocked(msg []byte) {
	copy(c.slot(c.count), msg)
	c.count++
	if c.count > c.peakLen {
		c.peakLen = c.count
	}
	c.totalSent++
}

// edgeLocked fires the selector notification on the empty-to-non-empty
// transition. Non-blocking: a full notify channel drops the edge and the
// selector's registration-order probe picks the member up instead.
func (c *Channel) edgeLocked() {
	if c.notify != nil && c.count == 1 {
		select {
		case c.notify <- c:
		default:
		}
	}
}

// Send enqueues a copy of msg, blocking while the channel is full. On
// timeout the message is not delivered; retrying or dropping is the
// caller's decision, never the channel's.
func (c *Channel) Send(msg []byte, timeout time.Duration) error {
	if len(msg) != c.msgSize {
		return api.NewError(api.ErrCodeInvalidArgument, "channel: message size mismatch").
			WithContext("want", c.msgSize).
			WithContext("got", len(msg))
	}

	c.mu.Lock()
	// Direct handoff: a receiver can only be parked while the ring is
	// empty, so handing the message over preserves FIFO.
	if c.count == 0 {
		if w := popLive(c.recvQ); w != nil {
			copy(w.data, msg)
			w.delivered = true
			close(w.done)
			c.totalSent++
			c.totalRecvd++
			c.mu.Unlock()
			return nil
		}
	}
	if c.count < c.capacity {
		c.enqueueLocked(msg)
		c.edgeLocked()
		c.mu.Unlock()
		return nil
	}
	if timeout == 0 {
		c.sendTimeouts++
		c.mu.Unlock()
		return api.NewError(api.ErrCodeTimeout, "channel: full")
	}

	w := newWaiter(append([]byte(nil), msg...))
	c.sendQ.Add(w)
	c.mu.Unlock()

	if w.await(timeout) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if w.delivered {
		// A receiver promoted the message between the timer firing and
		// this lock; the send succeeded.
		return nil
	}
	w.cancelled = true
	c.sendTimeouts++
	return api.NewError(api.ErrCodeTimeout, "channel: send timed out")
}

// RecvInto pops the oldest message into dst, blocking while the channel is
// empty. dst must hold at least MsgSize bytes.
func (c *Channel) RecvInto(dst []byte, timeout time.Duration) error {
	if len(dst) < c.msgSize {
		return api.NewError(api.ErrCodeInvalidArgument, "channel: destination too small").
			WithContext("want", c.msgSize).
			WithContext("got", len(dst))
	}

	c.mu.Lock()
	if c.count > 0 {
		copy(dst, c.slot(0))
		c.head = (c.head + 1) % c.capacity
		c.count--
		c.totalRecvd++
		// Space opened: promote the oldest blocked sender into the ring,
		// keeping global FIFO and waking exactly one task.
		if w := popLive(c.sendQ); w != nil {
			c.enqueueLocked(w.data)
			w.delivered = true
			close(w.done)
			c.edgeLocked()
		}
		c.mu.Unlock()
		return nil
	}
	if timeout == 0 {
		c.recvTimeouts++
		c.mu.Unlock()
		return api.NewError(api.ErrCodeTimeout, "channel: empty")
	}

	w := newWaiter(dst)
	c.recvQ.Add(w)
	c.mu.Unlock()

	if w.await(timeout) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if w.delivered {
		return nil
	}
	w.cancelled = true
	c.recvTimeouts++
	return api.NewError(api.ErrCodeTimeout, "channel: receive timed out")
}

// Recv pops the oldest message into a fresh slice.
func (c *Channel) Recv(timeout time.Duration) ([]byte, error) {
	dst := make([]byte, c.msgSize)
	if err := c.RecvInto(dst, timeout); err != nil {
		return nil, err
	}
	return dst, nil
}

// Ready implements api.Selectable: a non-blocking receive would succeed.
func (c *Channel) Ready() bool { return c.Len() > 0 }

// AttachSelector implements api.Selectable. When the channel already holds
// messages the edge fires immediately so the selector observes them.
func (c *Channel) AttachSelector(notify chan<- api.Selectable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notify != nil {
		return api.NewError(api.ErrCodeAlreadyRegistered, "channel: already in a selector")
	}
	c.notify = notify
	if c.count > 0 {
		select {
		case notify <- c:
		default:
		}
	}
	return nil
}

// DetachSelector implements api.Selectable.
func (c *Channel) DetachSelector() {
	c.mu.Lock()
	c.notify = nil
	c.mu.Unlock()
}

// Stats returns a non-blocking-style snapshot of the channel counters.
func (c *Channel) Stats() api.ChannelStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ChannelStats{
		Len:          c.count,
		Cap:          c.capacity,
		PeakLen:      c.peakLen,
		TotalSent:    c.totalSent,
		TotalRecvd:   c.totalRecvd,
		SendTimeouts: c.sendTimeouts,
		RecvTimeouts: c.recvTimeouts,
	}
}

var _ api.Selectable = (*Channel)(nil)
