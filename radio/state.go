// Package radio implements the Wi-Fi station radio FSM: network-stack
// bring-up, scan/associate/reconnect policy, and graceful teardown, driven
// by a cooperative poll() call and fed by mailboxes from an asynchronous
// event source.
package radio

import "github.com/jspark311/esp32-connectivity-core/state"

// State is the radio FSM's state variant. Invalid is the catch-all
// sentinel for codes this build doesn't recognize; it carries no
// behavior of its own.
type State int

const (
	Uninit State = iota
	PreInit
	Resetting
	Init
	Scanning
	Promiscuous
	Connecting
	Connected
	Disconnecting
	Disconnected
	Sleeping
	Waking
	Fault
	Invalid
)

var stateLabels = state.NewLabels[State]("INVALID",
	state.LabelPair[State]{State: Uninit, Name: "UNINIT"},
	state.LabelPair[State]{State: PreInit, Name: "PRE_INIT"},
	state.LabelPair[State]{State: Resetting, Name: "RESETTING"},
	state.LabelPair[State]{State: Init, Name: "INIT"},
	state.LabelPair[State]{State: Scanning, Name: "SCANNING"},
	state.LabelPair[State]{State: Promiscuous, Name: "PROMISCUOUS"},
	state.LabelPair[State]{State: Connecting, Name: "CONNECTING"},
	state.LabelPair[State]{State: Connected, Name: "CONNECTED"},
	state.LabelPair[State]{State: Disconnecting, Name: "DISCONNECTING"},
	state.LabelPair[State]{State: Disconnected, Name: "DISCONNECTED"},
	state.LabelPair[State]{State: Sleeping, Name: "SLEEPING"},
	state.LabelPair[State]{State: Waking, Name: "WAKING"},
	state.LabelPair[State]{State: Fault, Name: "FAULT"},
	state.LabelPair[State]{State: Invalid, Name: "INVALID"},
)

// String renders the state's stable textual name.
func (s State) String() string { return stateLabels.String(s) }

const waypointDepth = 12
