package mqttclient

import (
	"sync"
	"sync/atomic"

	"github.com/jspark311/esp32-connectivity-core/internal/logger"
	"github.com/jspark311/esp32-connectivity-core/state"
)

// LinkChecker is the small slice of radio.Radio's API the MQTT FSM gates
// on: §4.3's "CONNECTING requires radio link_up() && has_ip()". Defined
// locally rather than importing package radio so the two FSMs stay
// decoupled; *radio.Radio satisfies this interface structurally.
type LinkChecker interface {
	LinkUp() bool
	HasIP() bool
}

// MqttClient is the MQTT client FSM described in §4.3.
type MqttClient struct {
	log  logger.Logger
	cli  Client
	link LinkChecker

	machine *state.Machine[State]
	flags   state.Flags

	mbConnected   state.BoolMailbox
	mbConnLost    state.EdgeMailbox
	mbLastErr     atomic.Value // error
	mbDataPending []fragment
	mbDataMu      sync.Mutex
	mbSubAcked    []uint16
	mbSubAckedMu  sync.Mutex

	// pendingSubs tracks the SUBACKs still outstanding for the replay
	// batch submitted on the most recent Connected entry. It is
	// poll-thread-owned, touched only from Enter and Poll (both called
	// under mu), never from OnSubscribed directly (§9: flags, and the
	// bookkeeping that drives them, are poll-thread-exclusive).
	pendingSubs map[uint16]string

	reassembler *reassembler
	subs        *SubscriptionSet
	broker      BrokerConfig

	backoff           *state.Backoff
	reconnectDeadline state.Deadline

	mu     sync.Mutex
	closed atomic.Bool
}

// New constructs an MqttClient bound to link (typically a *radio.Radio)
// using the default paho-backed Client. lg may be nil.
func New(lg logger.Logger, link LinkChecker) *MqttClient {
	return NewWithClient(lg, link, newPahoClient())
}

// NewWithClient constructs an MqttClient bound to an arbitrary Client
// implementation, used by tests to substitute a fake broker.
func NewWithClient(lg logger.Logger, link LinkChecker, cli Client) *MqttClient {
	if lg == nil {
		lg = logger.Null
	}
	m := &MqttClient{
		log:         lg,
		cli:         cli,
		link:        link,
		reassembler: newReassembler(),
		subs:        NewSubscriptionSet(),
		backoff:     state.DefaultBackoff(),
	}
	m.machine = state.NewMachine[State](Uninit, stateLabels, waypointDepth, m)
	_ = cli.RegisterEventSink(m)
	return m
}

// SetBroker installs the broker configuration used by future connect
// attempts. It does not itself trigger a (re)connect.
func (m *MqttClient) SetBroker(cfg BrokerConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broker = cfg
	return nil
}

// Broker returns the currently configured broker.
func (m *MqttClient) Broker() BrokerConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broker
}

// Subscriptions exposes the desired subscription set for the caller to
// mutate with Add/Remove ahead of the next Connected entry's replay.
func (m *MqttClient) Subscriptions() *SubscriptionSet { return m.subs }

// Init plans Init → Connecting → Connected.
func (m *MqttClient) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.SetRoute(Init, Connecting, Connected)
}

// Initialized reports whether bring-up is complete.
func (m *MqttClient) Initialized() bool { return m.flags.Test(AllInitMask) }

// Connected reports whether the FSM's current state is Connected.
func (m *MqttClient) Connected() bool { return m.machine.Current() == Connected }

// CurrentState returns the FSM's current state.
func (m *MqttClient) CurrentState() State { return m.machine.Current() }

// SetAutoreconnect toggles whether Disconnected re-plans a connect route
// on its own once the link is usable again.
func (m *MqttClient) SetAutoreconnect(enable bool) { m.flags.Set(Autoreconnect, enable) }

// Autoreconnect reports the current auto-reconnect policy.
func (m *MqttClient) Autoreconnect() bool { return m.flags.Test(Autoreconnect) }

// AppendConnectRoute enqueues Connecting → Connected (console "con").
func (m *MqttClient) AppendConnectRoute() error {
	if m.Connected() {
		return nil
	}
	return m.machine.AppendRoute(Connecting, Connected)
}

// AppendDisconnectRoute enqueues Disconnecting → Disconnected (console
// "discon").
func (m *MqttClient) AppendDisconnectRoute() error {
	if !m.Connected() {
		return nil
	}
	return m.machine.AppendRoute(Disconnecting, Disconnected)
}

// Publish submits a publish while connected, returning the broker-
// assigned message id. Off of Connected, it fails fast rather than
// silently queueing — matching the source firmware, which has no
// outbound message queue either.
func (m *MqttClient) Publish(topic string, payload []byte, qos byte, retain bool) (uint16, error) {
	if !m.Connected() {
		return 0, ErrNotConnected
	}
	msgID, err := m.cli.Publish(topic, payload, qos, retain)
	if err != nil {
		return 0, ErrHardwareOrLibrary
	}
	return msgID, nil
}

// SubsComplete reports whether every SUBACK for the most recently
// submitted replay batch has arrived (§3 MqttFlags.SUBS_COMPLETE).
func (m *MqttClient) SubsComplete() bool { return m.flags.Test(SubsComplete) }

// Close tears down the client. Subsequent EventSink callbacks become
// no-ops, the same "weak reference resolves to absent" discipline as
// radio.Radio.Close.
func (m *MqttClient) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return m.cli.Disconnect()
}

// Poll advances the FSM at most once.
func (m *MqttClient) Poll() state.PollVerdict {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mbConnLost.Latch()
	m.drainSubAcks()

	if m.machine.Advance() {
		return state.Action
	}
	return state.NoAction
}

// drainSubAcks consumes SUBACK notices queued by OnSubscribed and clears
// the matching entries from pendingSubs, setting SUBS_COMPLETE once the
// batch has fully drained. Called only from Poll, under mu.
func (m *MqttClient) drainSubAcks() {
	m.mbSubAckedMu.Lock()
	acked := m.mbSubAcked
	m.mbSubAcked = nil
	m.mbSubAckedMu.Unlock()

	if len(acked) == 0 || m.pendingSubs == nil {
		return
	}
	for _, id := range acked {
		delete(m.pendingSubs, id)
	}
	if len(m.pendingSubs) == 0 {
		m.flags.SetBits(SubsComplete)
	}
}

//
// EventSink
//

func (m *MqttClient) OnConnected() {
	if m.closed.Load() {
		return
	}
	m.mbConnected.Store(true)
}

func (m *MqttClient) OnConnectionLost(err error) {
	if m.closed.Load() {
		return
	}
	m.mbConnected.Store(false)
	if err != nil {
		m.mbLastErr.Store(err)
	}
	m.mbConnLost.Raise()
}

func (m *MqttClient) OnSubscribed(messageID uint16) {
	if m.closed.Load() {
		return
	}
	m.mbSubAckedMu.Lock()
	m.mbSubAcked = append(m.mbSubAcked, messageID)
	m.mbSubAckedMu.Unlock()
}

func (m *MqttClient) OnUnsubscribed(filter string) {}

func (m *MqttClient) OnPublished(messageID uint16) {}

func (m *MqttClient) OnData(topic string, payload []byte, qos byte, retained bool) {
	if m.closed.Load() {
		return
	}
	m.mbDataMu.Lock()
	defer m.mbDataMu.Unlock()
	m.mbDataPending = append(m.mbDataPending, fragment{
		Topic: topic, Payload: payload, Offset: 0, Total: len(payload), QoS: qos, Retain: retained,
	})
}

func (m *MqttClient) OnError(err error) {
	if m.closed.Load() {
		return
	}
	if err != nil {
		m.mbLastErr.Store(err)
	}
}

// DrainMessages returns every fully reassembled message received since
// the last call, running each pending fragment through the
// reassembler. Called by the application between Poll calls, never from
// an EventSink method.
func (m *MqttClient) DrainMessages() []Message {
	m.mbDataMu.Lock()
	pending := m.mbDataPending
	m.mbDataPending = nil
	m.mbDataMu.Unlock()

	out := make([]Message, 0, len(pending))
	for _, f := range pending {
		msg, ok := m.reassembler.Feed(f)
		if !ok {
			continue
		}
		out = append(out, msg)
		if sub, found := m.subs.match(msg.Topic); found && sub.Callback != nil {
			sub.Callback(msg)
		}
	}
	return out
}

//
// state.Transitioner[State]
//

func (m *MqttClient) ReadyToAdvance(current State, q *state.Queue[State]) bool {
	switch current {
	case Uninit:
		return q.IsNext(Init)

	case Init:
		return m.Initialized()

	case Connecting:
		if m.link == nil || !m.link.LinkUp() || !m.link.HasIP() {
			_ = q.Prepend(Disconnected)
			return true
		}
		return m.mbConnected.Load()

	case Connected:
		if q.IsEmpty() {
			if m.link == nil || !m.link.LinkUp() || !m.link.HasIP() || m.mbConnLost.Latched() {
				_ = q.Append([]State{Disconnecting, Disconnected})
			}
		}
		return !q.IsEmpty()

	case Disconnecting:
		return !q.IsEmpty()

	case Disconnected:
		if q.IsEmpty() {
			m.planDisconnectedRoute(q)
		}
		return !q.IsEmpty()

	case Fault:
		return false

	default:
		return false
	}
}

func (m *MqttClient) planDisconnectedRoute(q *state.Queue[State]) {
	if !m.flags.Test(Autoreconnect) {
		return
	}
	if m.link == nil || !m.link.LinkUp() || !m.link.HasIP() {
		return
	}
	if !m.reconnectDeadline.Active() {
		m.reconnectDeadline.Arm(m.backoff.Next())
		return
	}
	if m.reconnectDeadline.Expired() {
		m.reconnectDeadline.Disarm()
		_ = q.Append([]State{Connecting, Connected})
	}
}

func (m *MqttClient) Enter(prior, next State) bool {
	switch next {
	case Uninit:
		m.setFault("tried to enter UNINIT")
		return false

	case Init:
		m.flags.SetBits(EventLoopCreated)
		m.flags.SetBits(ClientInit)
		if err := m.cli.RegisterEventSink(m); err != nil {
			m.setFault("unable to register event sink: " + err.Error())
			return false
		}
		m.flags.SetBits(EventRegistered)
		return true

	case Connecting:
		if m.link == nil || !m.link.LinkUp() || !m.link.HasIP() {
			return false
		}
		if err := m.cli.Connect(m.broker); err != nil {
			m.log.Printf("mqttclient: connect failed: %s", err)
			return false
		}
		return true

	case Connected:
		m.backoff.Reset()
		m.replaySubscriptions()
		return true

	case Disconnecting:
		if err := m.cli.Disconnect(); err != nil {
			m.log.Printf("mqttclient: disconnect failed: %s", err)
			return false
		}
		return true

	case Disconnected:
		m.reassembler.Reset()
		m.mbConnLost.Consume()
		m.mbConnected.Store(false)
		m.pendingSubs = nil
		m.flags.Clear(SubsComplete)
		return true

	case Fault:
		m.setFault("explicit fsm waypoint")
		return true

	default:
		m.setFault("unhandled mqttclient state")
		return false
	}
}

// replaySubscriptions re-subscribes every filter in the desired set, in
// insertion order, on each Connected entry. The source firmware's event
// handler subscribes to a pair of hardcoded example topics as an
// illustration only (§4.3 Open Question 3); a real client must
// resubscribe the caller's actual working set, since MQTT brokers do
// not remember subscriptions across a non-persistent session. Each
// submitted filter's message id is tracked in pendingSubs until its
// SUBACK arrives; SUBS_COMPLETE is cleared for the new batch and set
// immediately if the set is empty.
func (m *MqttClient) replaySubscriptions() {
	m.flags.Clear(SubsComplete)
	m.pendingSubs = make(map[uint16]string)
	for _, sub := range m.subs.Snapshot() {
		msgID, err := m.cli.Subscribe(sub.Filter, sub.QoS)
		if err != nil {
			m.log.Printf("mqttclient: resubscribe %q failed: %s", sub.Filter, err)
			continue
		}
		m.pendingSubs[msgID] = sub.Filter
	}
	if len(m.pendingSubs) == 0 {
		m.flags.SetBits(SubsComplete)
	}
}

func (m *MqttClient) setFault(msg string) {
	m.log.Printf("mqttclient: FAULT: %s", msg)
	m.machine.MarkCurrentState(Fault)
}
