// File: api/select.go
// Author: momentics <momentics@gmail.com>
//
// Readiness contract between selectable members (channels, binary signals)
// and the selector that multiplexes waits across them.

package api

// Selectable is implemented by any primitive a Selector can wait on.
// A member is ready when a non-blocking consume would succeed: a channel
// with at least one queued message, or a signal in the set state.
type Selectable interface {
	// Ready reports current readiness without consuming anything.
	Ready() bool

	// AttachSelector binds a notification edge. The member must deliver
	// itself on notify, without blocking, whenever it transitions from
	// not-ready to ready; edges may be dropped when notify is full, so
	// consumers re-probe members independently. A member belongs to at
	// most one selector; a second attach fails with ErrAlreadyRegistered.
	AttachSelector(notify chan<- Selectable) error

	// DetachSelector removes the binding. Safe to call when unbound.
	DetachSelector()
}
