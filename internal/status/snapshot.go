package status

// RadioSnapshot is the diagnostics view of the radio FSM's state (§5).
type RadioSnapshot struct {
	State        string `json:"state"`
	LinkUp       bool   `json:"linkUp"`
	HasIP        bool   `json:"hasIP"`
	IP4          string `json:"ip4,omitempty"`
	AuthRefused  bool   `json:"authRefused"`
	Autoconnect  bool   `json:"autoconnect"`
	AssociatedTo string `json:"associatedTo,omitempty"`
}

// MqttSnapshot is the diagnostics view of the MQTT client FSM's state.
type MqttSnapshot struct {
	State         string `json:"state"`
	Initialized   bool   `json:"initialized"`
	Connected     bool   `json:"connected"`
	Subscriptions int    `json:"subscriptions"`
	Broker        string `json:"broker,omitempty"`
}

// Snapshot is the full JSON body served at GET /status.
type Snapshot struct {
	Radio RadioSnapshot `json:"radio"`
	Mqtt  MqttSnapshot  `json:"mqtt"`
}

// Provider supplies the current snapshot on demand. cmd/esp32link's main
// wires this to the running Radio and MqttClient; tests can substitute a
// fixed-value fake.
type Provider interface {
	Snapshot() Snapshot
}
