package mqttclient

import "github.com/jspark311/esp32-connectivity-core/state"

// Flags are the MQTT client FSM's bitset, mirroring MQTT_FLAG_* from the
// source firmware.
const (
	EventLoopCreated state.Flags = 1 << iota
	ClientInit
	EventRegistered
	Autoreconnect
	SubsComplete
)

// AllInitMask is the composite mask checked by Initialized.
const AllInitMask = EventLoopCreated | ClientInit | EventRegistered

// ResetMask are the bits a reset preserves.
const ResetMask = Autoreconnect
