package mqttclient

import "sync"

// fakeLink is a deterministic LinkChecker for tests.
type fakeLink struct {
	mu    sync.Mutex
	up    bool
	hasIP bool
}

func (f *fakeLink) LinkUp() bool { f.mu.Lock(); defer f.mu.Unlock(); return f.up }
func (f *fakeLink) HasIP() bool  { f.mu.Lock(); defer f.mu.Unlock(); return f.hasIP }

func (f *fakeLink) SetReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.up, f.hasIP = ready, ready
}

// fakeClient is a deterministic Client for tests: Connect/Subscribe
// succeed synchronously against the registered sink instead of going
// through paho, and refuse lets a test model broker-side auth failure.
// manualAck, when set, withholds the SUBACK from Subscribe so a test can
// inject it later via ackSubscribe, modeling out-of-order broker acks.
type fakeClient struct {
	mu         sync.Mutex
	sink       EventSink
	refuse     bool
	subscribed []string
	connectN   int
	manualAck  bool
	nextMsgID  uint16
}

func (f *fakeClient) allocMsgID() uint16 {
	f.nextMsgID++
	return f.nextMsgID
}

// ackSubscribe delivers the SUBACK for a previously withheld Subscribe.
func (f *fakeClient) ackSubscribe(msgID uint16) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink.OnSubscribed(msgID)
	}
}

func (f *fakeClient) RegisterEventSink(sink EventSink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sink = sink
	return nil
}

func (f *fakeClient) Connect(cfg BrokerConfig) error {
	f.mu.Lock()
	f.connectN++
	sink := f.sink
	refuse := f.refuse
	f.mu.Unlock()
	if sink == nil {
		return nil
	}
	if refuse {
		sink.OnConnectionLost(ErrHardwareOrLibrary)
		return nil
	}
	sink.OnConnected()
	return nil
}

func (f *fakeClient) Disconnect() error {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink.OnConnectionLost(nil)
	}
	return nil
}

func (f *fakeClient) Subscribe(filter string, qos byte) (uint16, error) {
	f.mu.Lock()
	f.subscribed = append(f.subscribed, filter)
	msgID := f.allocMsgID()
	sink, manual := f.sink, f.manualAck
	f.mu.Unlock()
	if sink != nil && !manual {
		sink.OnSubscribed(msgID)
	}
	return msgID, nil
}

func (f *fakeClient) Unsubscribe(filter string) (uint16, error) {
	if f.sink != nil {
		f.sink.OnUnsubscribed(filter)
	}
	return 0, nil
}

func (f *fakeClient) Publish(topic string, payload []byte, qos byte, retain bool) (uint16, error) {
	f.mu.Lock()
	msgID := f.allocMsgID()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink.OnPublished(msgID)
	}
	return msgID, nil
}

func (f *fakeClient) deliverData(topic string, payload []byte) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink.OnData(topic, payload, 0, false)
	}
}
