package mqttclient

import "fmt"

// ProtocolVersion mirrors the MQTT wire protocol version to negotiate.
type ProtocolVersion int

const (
	ProtocolV311 ProtocolVersion = iota
	ProtocolV5
)

// LastWill mirrors the session.last_will block of the source firmware's
// esp_mqtt_client_config_t literal.
type LastWill struct {
	Topic   string
	Message string
	QoS     byte
	Retain  bool
}

// BrokerConfig is the connection-level configuration for one broker, the
// Go analog of MQTTBrokerDef plus its embedded esp_mqtt_client_config_t
// literal. It is the unit the "broker" console command mutates and the
// unit cmd/esp32link loads from YAML.
type BrokerConfig struct {
	Label    string          `yaml:"label"`
	URI      string          `yaml:"uri"`
	Username string          `yaml:"username"`
	Password string          `yaml:"password"`
	ClientID string          `yaml:"clientId"`
	Protocol ProtocolVersion `yaml:"protocol"`

	CleanSession    bool `yaml:"cleanSession"`
	DisableAutoConn bool `yaml:"disableAutoReconnect"`

	LastWill *LastWill `yaml:"lastWill,omitempty"`
}

// validate reports whether the config has enough to attempt a connect.
func (b BrokerConfig) validate() error {
	if b.URI == "" {
		return fmt.Errorf("%w: broker uri is required", ErrBadParameter)
	}
	return nil
}

// redactedPassword renders [UNSET] or a masked placeholder, matching the
// source's printDebug behavior of never printing the real secret.
func (b BrokerConfig) redactedPassword() string {
	if b.Password == "" {
		return "[UNSET]"
	}
	return "[REDACTED]"
}

// String renders a single debug line, analogous to MQTTBrokerDef::printDebug.
func (b BrokerConfig) String() string {
	user := b.Username
	if user == "" {
		user = "[UNSET]"
	}
	return fmt.Sprintf("[%s]\t%s:%s@%s", b.Label, user, b.redactedPassword(), b.URI)
}
