// Package channel
// Author: momentics <momentics@gmail.com>
//
// Bounded FIFO message channels for the primkit library.
// A Channel transfers fixed-size messages through a fixed-capacity ring,
// giving producers backpressure instead of unbounded growth. Blocked
// senders and receivers park on explicit FIFO waiter queues and are woken
// strictly in arrival order. Signal is the binary counterpart: a latch set
// by one task and consumed by exactly one taker. Both implement the
// readiness contract the selector package multiplexes over.
// See channel.go, signal.go, deadline.go for implementation details.
package channel
