package state

import "time"

// PollVerdict is the verdict of a single poll() tick: whether the FSM (or
// driver loop wrapping several FSMs) took an action or had nothing to do.
// A super-loop uses this to decide whether it may sleep.
type PollVerdict int

const (
	NoAction PollVerdict = iota
	Action
)

func (v PollVerdict) String() string {
	if v == Action {
		return "ACTION"
	}
	return "NO_ACTION"
}

// Pollable is anything a driver loop can tick: radio.Radio and
// mqttclient.MqttClient both satisfy this.
type Pollable interface {
	Poll() PollVerdict
}

// Transitioner is implemented by an FSM owner (radio.Radio, MqttClient)
// and supplies the two halves of a transition that the generic Machine
// core cannot know about: whether the current state's exit criterion is
// satisfied (and any route replanning that decision implies), and the
// side-effecting entry action for a candidate next state.
type Transitioner[S comparable] interface {
	// ReadyToAdvance inspects the current state and may mutate q (e.g.
	// append/prepend a waypoint when the machine is otherwise stable). It
	// reports whether the current state's exit criterion now holds. This
	// half must not perform side effects outside of q.
	ReadyToAdvance(current S, q *Queue[S]) bool

	// Enter performs the entry action for transitioning from prior into
	// next. false means the action failed and the machine stays in prior;
	// the queue is left untouched so the owner (or a subsequent poll) can
	// decide whether to retry.
	Enter(prior, next S) bool
}

// Machine is the generic waypoint-queue FSM core: current-state tracking
// plus a bounded queue of planned next states, advanced at most once per
// Poll call. It knows nothing about what any particular state means; that
// lives entirely in the Transitioner and in the owner's own state type.
type Machine[S comparable] struct {
	labels *Labels[S]
	queue  *Queue[S]
	owner  Transitioner[S]

	current S
	prior   S

	dwell    Deadline
	minDwell time.Duration
}

// NewMachine constructs a Machine starting in initial, with a waypoint
// queue of the given depth (DefaultQueueDepth if <= 0).
func NewMachine[S comparable](initial S, labels *Labels[S], depth int, owner Transitioner[S]) *Machine[S] {
	return &Machine[S]{
		labels:  labels,
		queue:   NewQueue[S](depth),
		owner:   owner,
		current: initial,
		prior:   initial,
	}
}

// SetMinDwell sets the minimum stable dwell time enforced by IsWaiting
// after a transition. Zero (the default) disables dwell enforcement.
func (m *Machine[S]) SetMinDwell(d time.Duration) { m.minDwell = d }

// Current returns the FSM's current state.
func (m *Machine[S]) Current() S { return m.current }

// Prior returns the state the FSM was in before its most recent
// transition.
func (m *Machine[S]) Prior() S { return m.prior }

// String renders the current state using the machine's label table.
func (m *Machine[S]) String() string { return m.labels.String(m.current) }

// StateName renders an arbitrary state using the machine's label table.
func (m *Machine[S]) StateName(s S) string { return m.labels.String(s) }

// SetRoute replaces the entire waypoint queue, failing if it cannot hold
// every state in states.
func (m *Machine[S]) SetRoute(states ...S) error { return m.queue.Set(states) }

// AppendRoute enqueues states after whatever is already planned.
func (m *Machine[S]) AppendRoute(states ...S) error { return m.queue.Append(states) }

// AppendState enqueues a single state after whatever is already planned.
func (m *Machine[S]) AppendState(s S) error { return m.queue.Append([]S{s}) }

// PrependState inserts s at the head of the queue, ahead of any existing
// plan — used to park the FSM on a retry waypoint.
func (m *Machine[S]) PrependState(s S) error { return m.queue.Prepend(s) }

// MarkCurrentState forces the current state directly, bypassing the
// queue and any entry action. This is the only legal way into Fault.
func (m *Machine[S]) MarkCurrentState(s S) {
	m.prior = m.current
	m.current = s
	m.queue.Clear()
}

// IsStable reports whether the waypoint queue is empty.
func (m *Machine[S]) IsStable() bool { return m.queue.IsEmpty() }

// IsWaiting reports whether the machine is stable and still within its
// minimum post-transition dwell period.
func (m *Machine[S]) IsWaiting() bool { return m.IsStable() && m.dwell.Active() && !m.dwell.Expired() }

// IsNextPos reports whether s is the head of the waypoint queue.
func (m *Machine[S]) IsNextPos(s S) bool { return m.queue.IsNext(s) }

// QueueLen returns the number of planned waypoints.
func (m *Machine[S]) QueueLen() int { return m.queue.Len() }

// Advance performs at most one transition: it asks the owner whether the
// current state's exit criterion is met (which may replan the queue),
// and if so, attempts the entry action for the queue's head. It reports
// whether a transition actually happened.
func (m *Machine[S]) Advance() bool {
	if !m.owner.ReadyToAdvance(m.current, m.queue) {
		return false
	}
	next, ok := m.queue.Peek()
	if !ok {
		return false
	}
	if m.IsWaiting() {
		return false
	}
	if !m.owner.Enter(m.current, next) {
		return false
	}
	m.queue.Pop()
	m.prior = m.current
	m.current = next
	m.dwell.Arm(m.minDwell)
	return true
}

// Poll advances the machine at most once and reports the verdict.
func (m *Machine[S]) Poll() PollVerdict {
	if m.Advance() {
		return Action
	}
	return NoAction
}
