package mqttclient

import (
	"sync"
	"sync/atomic"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

const disconnectQuiesceMillis = 250

// pahoClient binds the Client contract to
// github.com/eclipse/paho.mqtt.golang. Connection outcome, subscription
// acks, and inbound publishes are wired to the registered EventSink from
// paho's own handler callbacks, so none of this adapter's methods block
// waiting on a token — the FSM discovers completion on a later Poll via
// the mailboxes those handlers write.
type pahoClient struct {
	mu        sync.Mutex
	sink      EventSink
	cli       MQTT.Client
	nextMsgID atomic.Uint32
}

// allocMsgID hands out a broker-correlation id for a submitted
// Subscribe/Unsubscribe/Publish, distinct from paho's own internal
// packet ids. 0 is never issued, so callers can treat it as "no id".
func (p *pahoClient) allocMsgID() uint16 {
	return uint16(p.nextMsgID.Add(1))
}

// newPahoClient constructs an unconnected adapter. Connect builds the
// underlying MQTT.Client fresh each time, since paho.mqtt.golang's
// ClientOptions are not meant to be mutated after NewClient.
func newPahoClient() *pahoClient { return &pahoClient{} }

func (p *pahoClient) RegisterEventSink(sink EventSink) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
	return nil
}

func (p *pahoClient) Connect(cfg BrokerConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	p.mu.Lock()
	sink := p.sink
	p.mu.Unlock()

	opts := MQTT.NewClientOptions()
	opts.AddBroker(cfg.URI)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	}
	opts.SetCleanSession(cfg.CleanSession)
	opts.SetAutoReconnect(false) // the FSM owns reconnect policy, not the library
	if cfg.LastWill != nil {
		opts.SetWill(cfg.LastWill.Topic, cfg.LastWill.Message, cfg.LastWill.QoS, cfg.LastWill.Retain)
	}
	opts.SetDefaultPublishHandler(func(_ MQTT.Client, msg MQTT.Message) {
		if sink != nil {
			sink.OnData(msg.Topic(), msg.Payload(), msg.Qos(), msg.Retained())
		}
	})
	opts.SetOnConnectHandler(func(_ MQTT.Client) {
		if sink != nil {
			sink.OnConnected()
		}
	})
	opts.SetConnectionLostHandler(func(_ MQTT.Client, err error) {
		if sink != nil {
			sink.OnConnectionLost(err)
		}
	})

	cli := MQTT.NewClient(opts)
	p.mu.Lock()
	p.cli = cli
	p.mu.Unlock()

	token := cli.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil && sink != nil {
			sink.OnConnectionLost(err)
		}
	}()
	return nil
}

func (p *pahoClient) Disconnect() error {
	p.mu.Lock()
	cli := p.cli
	p.mu.Unlock()
	if cli == nil {
		return nil
	}
	cli.Disconnect(disconnectQuiesceMillis)
	return nil
}

func (p *pahoClient) Subscribe(filter string, qos byte) (uint16, error) {
	p.mu.Lock()
	cli, sink := p.cli, p.sink
	p.mu.Unlock()
	if cli == nil {
		return 0, ErrNotReady
	}
	msgID := p.allocMsgID()
	token := cli.Subscribe(filter, qos, nil)
	go func() {
		token.Wait()
		if sink == nil {
			return
		}
		if err := token.Error(); err != nil {
			sink.OnError(err)
			return
		}
		sink.OnSubscribed(msgID)
	}()
	return msgID, nil
}

func (p *pahoClient) Unsubscribe(filter string) (uint16, error) {
	p.mu.Lock()
	cli, sink := p.cli, p.sink
	p.mu.Unlock()
	if cli == nil {
		return 0, ErrNotReady
	}
	msgID := p.allocMsgID()
	token := cli.Unsubscribe(filter)
	go func() {
		token.Wait()
		if sink == nil {
			return
		}
		if err := token.Error(); err != nil {
			sink.OnError(err)
			return
		}
		sink.OnUnsubscribed(filter)
	}()
	return msgID, nil
}

func (p *pahoClient) Publish(topic string, payload []byte, qos byte, retain bool) (uint16, error) {
	p.mu.Lock()
	cli, sink := p.cli, p.sink
	p.mu.Unlock()
	if cli == nil {
		return 0, ErrNotReady
	}
	msgID := p.allocMsgID()
	token := cli.Publish(topic, qos, retain, payload)
	go func() {
		token.Wait()
		if sink == nil {
			return
		}
		if err := token.Error(); err != nil {
			sink.OnError(err)
			return
		}
		sink.OnPublished(msgID)
	}()
	return msgID, nil
}
