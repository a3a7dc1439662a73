// Package mqttclient implements the MQTT client FSM layered on top of a
// radio link: broker connect/disconnect lifecycle, subscription replay,
// and publish/data plumbing, driven by the same cooperative poll() model
// as package radio and gated on the radio reporting link-up and an IP
// lease.
package mqttclient

import "github.com/jspark311/esp32-connectivity-core/state"

// State is the MQTT client FSM's state variant.
type State int

const (
	Uninit State = iota
	Init
	Connecting
	Connected
	Disconnecting
	Disconnected
	Fault
	Invalid
)

var stateLabels = state.NewLabels[State]("INVALID",
	state.LabelPair[State]{State: Uninit, Name: "UNINIT"},
	state.LabelPair[State]{State: Init, Name: "INIT"},
	state.LabelPair[State]{State: Connecting, Name: "CONNECTING"},
	state.LabelPair[State]{State: Connected, Name: "CONNECTED"},
	state.LabelPair[State]{State: Disconnecting, Name: "DISCONNECTING"},
	state.LabelPair[State]{State: Disconnected, Name: "DISCONNECTED"},
	state.LabelPair[State]{State: Fault, Name: "FAULT"},
	state.LabelPair[State]{State: Invalid, Name: "INVALID"},
)

// String renders the state's stable textual name.
func (s State) String() string { return stateLabels.String(s) }

const waypointDepth = 8
