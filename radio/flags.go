package radio

import "github.com/jspark311/esp32-connectivity-core/state"

// Flags are the radio FSM's bitset. Exactly one of the INIT_AS_* bits must
// be set to reach Init; this build only ever sets InitAsStation (station
// mode is the only one realized here, per §1's Non-goals).
const (
	NetifInit state.Flags = 1 << iota
	EventLoopCreated
	WifiInit
	WifiStarted
	InitAsStation
	InitAsAP
	InitAsMesh
	Autoconnect
	AuthRefused
	ConnectActive
)

// PreInitMask is the composite mask for net-stack + event-loop bring-up.
const PreInitMask = NetifInit | EventLoopCreated

// AllInitMask is the composite mask for full initialization.
const AllInitMask = PreInitMask | WifiInit | WifiStarted

// ResetMask are the bits a reset preserves; everything else is cleared.
const ResetMask = ConnectActive | AuthRefused | PreInitMask
