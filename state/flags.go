// Package state provides the generic waypoint-queue finite-state-machine
// core shared by the radio and mqttclient packages: a bounded route queue,
// current-state tracking, single-transition-per-poll dispatch, and the
// small supporting primitives (flag bitsets, millisecond timers, backoff
// schedules, mailboxes) that both FSMs are built from.
package state

// Flags is a compact bitset used for FSM-local flags (one bag per FSM
// instance). It intentionally has no locking: flags are owned and mutated
// only by the poll-thread side of the FSM, never by the event-loop side.
type Flags uint32

// Set sets the bits in mask. If cond is false, the bits are cleared instead.
func (f *Flags) Set(mask Flags, cond bool) {
	if cond {
		*f |= mask
	} else {
		*f &^= mask
	}
}

// SetBits unconditionally sets the bits in mask.
func (f *Flags) SetBits(mask Flags) { *f |= mask }

// Clear unconditionally clears the bits in mask.
func (f *Flags) Clear(mask Flags) { *f &^= mask }

// Test reports whether all bits in mask are set.
func (f Flags) Test(mask Flags) bool { return mask == (f & mask) }

// Any reports whether any bit in mask is set.
func (f Flags) Any(mask Flags) bool { return 0 != (f & mask) }

// Mask clears every bit not present in keep. Used for reset-preserve
// semantics: Radio.reset() and MqttClient.reset() call this with their
// respective *_RESET_MASK.
func (f *Flags) Mask(keep Flags) { *f &= keep }
