package mqttclient

// Message is a fully reassembled inbound publish.
type Message struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// fragment is one DATA event as reported by the underlying library. A
// single logical message can arrive as more than one fragment when its
// payload exceeds the transport's buffer size; TotalLen and Offset let
// the reassembler tell a genuinely new message on the same topic apart
// from the continuation of one already in progress.
type fragment struct {
	Topic   string
	Payload []byte
	Offset  int
	Total   int
	QoS     byte
	Retain  bool
}

// reassembler coalesces fragmented DATA events by topic (§4.3). Most
// Client implementations (the paho adapter included) never produce
// fragments — the underlying library already hands back complete
// messages — so in the common case each fragment's Offset is 0 and
// Total equals len(Payload), and the reassembler emits it immediately.
// It exists so a future Driver closer to the raw ESP-IDF MQTT client,
// which does deliver large payloads as a sequence of DATA events sharing
// one topic, can be coalesced without changing FSM logic.
type reassembler struct {
	inFlight map[string]*partial
}

type partial struct {
	buf    []byte
	total  int
	qos    byte
	retain bool
}

func newReassembler() *reassembler {
	return &reassembler{inFlight: make(map[string]*partial)}
}

// Feed ingests one fragment and returns the completed Message once every
// byte of it has arrived, or ok=false if the message is still partial.
func (r *reassembler) Feed(f fragment) (Message, bool) {
	p, ok := r.inFlight[f.Topic]
	if !ok || f.Offset == 0 {
		p = &partial{total: f.Total, qos: f.QoS, retain: f.Retain}
		r.inFlight[f.Topic] = p
	}
	p.buf = append(p.buf, f.Payload...)
	if p.total <= 0 || len(p.buf) >= p.total {
		delete(r.inFlight, f.Topic)
		return Message{Topic: f.Topic, Payload: p.buf, QoS: p.qos, Retain: p.retain}, true
	}
	return Message{}, false
}

// Reset discards any partial messages, used on Disconnected entry so a
// message interrupted mid-fragment on one connection is never stitched
// to a fragment delivered on the next.
func (r *reassembler) Reset() { r.inFlight = make(map[string]*partial) }
