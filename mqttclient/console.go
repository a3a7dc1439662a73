package mqttclient

import (
	"fmt"
	"strconv"
)

// HandleCommand dispatches a console command against this MqttClient,
// mirroring console_handler_mqtt_client from the source firmware's
// serial console.
func (m *MqttClient) HandleCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrBadParameter
	}
	switch args[0] {
	case "broker":
		if len(args) != 4 {
			return "", fmt.Errorf("%w: usage: broker <uri> <user> <pass>", ErrBadParameter)
		}
		cfg := m.Broker()
		cfg.URI, cfg.Username, cfg.Password = args[1], args[2], args[3]
		if err := m.SetBroker(cfg); err != nil {
			return "", err
		}
		return "broker updated", nil

	case "con":
		if m.Connected() {
			return "mqttclient is already connected", nil
		}
		if err := m.AppendConnectRoute(); err != nil {
			return "", err
		}
		return "connect route queued", nil

	case "discon":
		if !m.Connected() {
			return "mqttclient is already disconnected", nil
		}
		if err := m.AppendDisconnectRoute(); err != nil {
			return "", err
		}
		return "disconnect route queued", nil

	case "sub":
		if len(args) < 2 {
			return "", fmt.Errorf("%w: usage: sub <filter> [qos]", ErrBadParameter)
		}
		var qos byte
		if len(args) >= 3 {
			v, err := strconv.ParseUint(args[2], 10, 8)
			if err != nil {
				return "", fmt.Errorf("%w: bad qos: %s", ErrBadParameter, err)
			}
			qos = byte(v)
		}
		if err := m.subs.Add(args[1], qos); err != nil {
			return "", err
		}
		return fmt.Sprintf("subscribed %q at qos %d (replays on next CONNECTED)", args[1], qos), nil

	case "unsub":
		if len(args) < 2 {
			return "", fmt.Errorf("%w: usage: unsub <filter>", ErrBadParameter)
		}
		m.subs.Remove(args[1])
		return fmt.Sprintf("unsubscribed %q", args[1]), nil

	case "pub":
		if len(args) < 3 {
			return "", fmt.Errorf("%w: usage: pub <topic> <payload>", ErrBadParameter)
		}
		msgID, err := m.Publish(args[1], []byte(args[2]), 0, false)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("published, msg_id=%d", msgID), nil

	case "fsm":
		return m.debugString(), nil

	default:
		return "", fmt.Errorf("%w: unknown mqtt command %q", ErrBadParameter, args[0])
	}
}

func (m *MqttClient) debugString() string {
	return fmt.Sprintf("state=%s initialized=%v connected=%v subs=%d broker=%s",
		m.machine.String(), m.Initialized(), m.Connected(), m.subs.Len(), m.broker.String())
}
