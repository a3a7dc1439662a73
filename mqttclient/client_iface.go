package mqttclient

// EventSink is the typed handle an underlying Client reports through,
// the MQTT analog of radio.EventSink (§9). Implementations must do
// nothing but write a mailbox: no Client calls, no FSM routing.
type EventSink interface {
	OnConnected()
	OnConnectionLost(err error)
	OnSubscribed(messageID uint16)
	OnUnsubscribed(filter string)
	OnPublished(messageID uint16)
	OnData(topic string, payload []byte, qos byte, retained bool)
	OnError(err error)
}

// Client is the MQTT library contract consumed rather than specified
// (§6): connect/disconnect lifecycle plus pub/sub, with results reported
// asynchronously through the registered EventSink rather than by
// blocking the caller. mqttclient.pahoClient is the concrete binding to
// github.com/eclipse/paho.mqtt.golang; a Client of this shape is what a
// test double or an alternate broker binding must implement.
type Client interface {
	RegisterEventSink(sink EventSink) error

	// Connect begins an asynchronous connection attempt against the
	// given broker configuration. The outcome is reported via
	// OnConnected or OnConnectionLost, not via this call's return.
	Connect(cfg BrokerConfig) error

	// Disconnect begins a graceful shutdown. Completion is not
	// separately reported; the FSM treats the call itself as the entry
	// action and does not wait for confirmation, matching the source
	// firmware's synchronous esp_mqtt_client_stop() call.
	Disconnect() error

	Subscribe(filter string, qos byte) (messageID uint16, err error)
	Unsubscribe(filter string) (messageID uint16, err error)
	Publish(topic string, payload []byte, qos byte, retain bool) (messageID uint16, err error)
}
