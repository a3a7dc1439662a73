package mqttclient

// SubscriptionCallback is invoked with a fully reassembled message once
// delivery to the matching filter completes (§4.3).
type SubscriptionCallback func(msg Message)

// Subscription is one entry of the client's desired subscription set.
type Subscription struct {
	Filter   string
	QoS      byte
	Callback SubscriptionCallback
}

// SubscriptionSet is the set of filters the client keeps subscribed
// across reconnects. Unlike the source firmware's illustrative
// hardcoded example topics in mqtt_event_handler, a real client's
// subscription set is application data: the caller builds it with
// Add/Remove and the FSM replays it in full, in insertion order, on
// every Connected entry (§3's "insertion-order preserved for
// deterministic replay", §9 Open Question 3's resolution). Insertion
// order is tracked explicitly with order rather than relying on map
// iteration, which Go deliberately randomizes.
type SubscriptionSet struct {
	order    []string
	byFilter map[string]*Subscription
}

// NewSubscriptionSet constructs an empty set.
func NewSubscriptionSet() *SubscriptionSet {
	return &SubscriptionSet{byFilter: make(map[string]*Subscription)}
}

// Add registers filter at the given QoS with no delivery callback,
// replacing any existing entry's QoS/callback in place. Re-adding an
// existing filter does not move it to the back of the replay order.
func (s *SubscriptionSet) Add(filter string, qos byte) error {
	return s.AddWithCallback(filter, qos, nil)
}

// AddWithCallback is Add, additionally registering cb to receive every
// fully reassembled message whose topic matches filter (§4.3's "delivery
// to the registered topic callback when the payload is complete").
func (s *SubscriptionSet) AddWithCallback(filter string, qos byte, cb SubscriptionCallback) error {
	if filter == "" {
		return ErrBadParameter
	}
	if sub, ok := s.byFilter[filter]; ok {
		sub.QoS, sub.Callback = qos, cb
		return nil
	}
	s.byFilter[filter] = &Subscription{Filter: filter, QoS: qos, Callback: cb}
	s.order = append(s.order, filter)
	return nil
}

// Remove drops filter from the set. It is not unsubscribed from the
// broker until the caller separately issues an unsubscribe while
// connected; removing from the set only affects future replay.
func (s *SubscriptionSet) Remove(filter string) {
	if _, ok := s.byFilter[filter]; !ok {
		return
	}
	delete(s.byFilter, filter)
	for i, f := range s.order {
		if f == filter {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the current set as a slice in insertion order,
// suitable for deterministic replay.
func (s *SubscriptionSet) Snapshot() []Subscription {
	out := make([]Subscription, 0, len(s.order))
	for _, f := range s.order {
		out = append(out, *s.byFilter[f])
	}
	return out
}

// Len reports how many filters are registered.
func (s *SubscriptionSet) Len() int { return len(s.order) }

// match returns the first registered subscription whose filter matches
// topic, checked in insertion order, for routing a completed DATA
// delivery to its callback.
func (s *SubscriptionSet) match(topic string) (*Subscription, bool) {
	for _, f := range s.order {
		if topicMatch(f, topic) {
			return s.byFilter[f], true
		}
	}
	return nil, false
}
