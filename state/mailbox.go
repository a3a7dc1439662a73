package state

import "sync/atomic"

// BoolMailbox is a single-writer, single-reader boolean cell: the
// event-loop thread writes it, the driver thread reads it at the top of
// poll(). Word-sized atomics give the reader either the pre- or
// post-write value, never a tear, without needing a mutex on the hot
// poll() path.
type BoolMailbox struct{ v atomic.Bool }

// Store is called from the async event-source thread.
func (m *BoolMailbox) Store(v bool) { m.v.Store(v) }

// Load is called from the driver thread.
func (m *BoolMailbox) Load() bool { return m.v.Load() }

// Uint32Mailbox is the uint32 analog of BoolMailbox, used for mb_ip4_addr.
type Uint32Mailbox struct{ v atomic.Uint32 }

func (m *Uint32Mailbox) Store(v uint32) { m.v.Store(v) }
func (m *Uint32Mailbox) Load() uint32   { return m.v.Load() }

// Uint16Mailbox is the uint16 analog of BoolMailbox, used for
// mb_disc_reason and MQTT message IDs in flight.
type Uint16Mailbox struct{ v atomic.Uint32 }

func (m *Uint16Mailbox) Store(v uint16) { m.v.Store(uint32(v)) }
func (m *Uint16Mailbox) Load() uint16   { return uint16(m.v.Load()) }

// EdgeMailbox is a BoolMailbox with edge semantics: once the writer sets
// it true, readers latch that fact until they explicitly Consume it. Used
// for mb_scan_done, which must stay asserted across poll() calls until the
// FSM leaves the Scanning state.
type EdgeMailbox struct {
	raw   BoolMailbox
	latch atomic.Bool
}

// Raise is called from the event-source thread on the edge event.
func (e *EdgeMailbox) Raise() { e.raw.Store(true) }

// Latch copies a pending raw edge into the sticky latch. Called once per
// poll() tick by the driver, before the FSM logic runs, so a poll tick
// sees a consistent snapshot.
func (e *EdgeMailbox) Latch() {
	if e.raw.Load() {
		e.latch.Store(true)
	}
}

// Latched reports whether the edge is currently latched.
func (e *EdgeMailbox) Latched() bool { return e.latch.Load() }

// Consume clears the latch and the underlying raw flag. Only the FSM, on
// exit from the state that owns this edge, may call this.
func (e *EdgeMailbox) Consume() {
	e.latch.Store(false)
	e.raw.Store(false)
}
