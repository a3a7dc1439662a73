package radio

import (
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/jspark311/esp32-connectivity-core/internal/logger"
	"github.com/jspark311/esp32-connectivity-core/state"
)

// LatchedState is the driver-thread-owned snapshot copied from mailboxes
// at the top of each Poll() call (§3). FSM logic reads only this, never
// the mailboxes directly, so a single poll tick sees one consistent view.
type LatchedState struct {
	WifiStarted     bool
	StaConnected    bool
	IP4Valid        bool
	IP4Addr         uint32
	ScanDoneLatched bool
	LastDiscReason  uint16
}

// Radio is the Wi-Fi station radio FSM described in §4.2.
type Radio struct {
	log logger.Logger
	drv Driver

	machine *state.Machine[State]
	flags   state.Flags

	mbWifiStarted  state.BoolMailbox
	mbStaConnected state.BoolMailbox
	mbIP4Valid     state.BoolMailbox
	mbIP4Addr      state.Uint32Mailbox
	mbScanDone     state.EdgeMailbox
	mbDisconnected state.EdgeMailbox // raised on every STA_DISCONNECTED, not just a connected->not edge
	mbDiscReason   state.Uint16Mailbox

	latched LatchedState

	scanTable    ScanResultTable
	currentAP    AccessPointRecord
	hasCurrentAP bool

	backoff           *state.Backoff
	reconnectDeadline state.Deadline

	mu     sync.Mutex // serializes init()/associate()/route mutation against poll()
	closed atomic.Bool
}

// New constructs a Radio bound to drv. lg may be nil (discards logs).
func New(lg logger.Logger, drv Driver) *Radio {
	if lg == nil {
		lg = logger.Null
	}
	r := &Radio{log: lg, drv: drv, backoff: state.DefaultBackoff()}
	r.machine = state.NewMachine[State](Uninit, stateLabels, waypointDepth, r)
	return r
}

// Init plans PreInit → Init → Disconnected. It is idempotent after the
// first success: calling it again re-plans and re-drives the itinerary
// without tearing anything down.
func (r *Radio) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.SetRoute(PreInit, Init, Disconnected)
}

// Initialized reports whether all bring-up flags (net-if, event loop,
// Wi-Fi init, Wi-Fi started) are set.
func (r *Radio) Initialized() bool { return r.flags.Test(AllInitMask) }

func (r *Radio) preInitComplete() bool { return r.flags.Test(PreInitMask) }

// Connected reports whether the FSM's current state is Connected.
func (r *Radio) Connected() bool { return r.machine.Current() == Connected }

// LinkUp reports whether the station is currently associated.
func (r *Radio) LinkUp() bool { return r.latched.StaConnected }

// HasIP reports whether the station currently holds a valid IPv4 lease.
func (r *Radio) HasIP() bool { return r.latched.IP4Valid }

// IP4 returns the latched IPv4 address in native byte order (0 if none).
func (r *Radio) IP4() uint32 { return r.latched.IP4Addr }

// CurrentState returns the FSM's current state, mostly for diagnostics.
func (r *Radio) CurrentState() State { return r.machine.Current() }

// AuthRefused reports whether the sticky auth-failure stop is set.
func (r *Radio) AuthRefused() bool { return r.flags.Test(AuthRefused) }

// ClearAuthRefused lets the application resume auto-reconnect after
// supplying new credentials.
func (r *Radio) ClearAuthRefused() { r.flags.Clear(AuthRefused) }

// SetAutoconnect toggles the greedy-reconnect policy.
func (r *Radio) SetAutoconnect(enable bool) { r.flags.Set(Autoconnect, enable) }

// Autoconnect reports the current greedy-reconnect policy setting.
func (r *Radio) Autoconnect() bool { return r.flags.Test(Autoconnect) }

// Associate submits new credentials to the underlying driver. It does
// not by itself alter the planned route; follow with a connect route
// (e.g. via the "con" console command or AppendConnectRoute) to actually
// associate.
func (r *Radio) Associate(ssid, psk string) error {
	if !r.Initialized() {
		return ErrNotReady
	}
	if ssid == "" {
		return ErrBadParameter
	}
	if err := r.drv.SetStaConfig(StaConfig{SSID: ssid, Password: psk, AuthModeMinimum: AuthWpa2Psk}); err != nil {
		return ErrHardwareOrLibrary
	}
	r.flags.Clear(AuthRefused)
	return nil
}

// AppendConnectRoute enqueues Connecting → Connected, the "con" console
// command's effect.
func (r *Radio) AppendConnectRoute() error { return r.machine.AppendRoute(Connecting, Connected) }

// AppendDisconnectRoute enqueues Disconnecting → Disconnected, the
// "discon" console command's effect.
func (r *Radio) AppendDisconnectRoute() error {
	return r.machine.AppendRoute(Disconnecting, Disconnected)
}

// Deauth issues an immediate deauthentication of a connected station by
// association ID (console "deauth" command; mostly meaningful in AP
// mode, wired through here for interface completeness).
func (r *Radio) Deauth(aid uint16) error {
	if err := r.drv.DeauthSta(aid); err != nil {
		return ErrHardwareOrLibrary
	}
	return nil
}

// WifiScan appends a scan-and-return waypoint: Scanning then back to
// whatever state the radio is in now. Only valid once initialized and
// while stable (no transition already planned).
func (r *Radio) WifiScan() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.Initialized() || !r.machine.IsStable() {
		return ErrNotReady
	}
	return r.machine.AppendRoute(Scanning, r.machine.Current())
}

// SerializeAP writes a YAML-encoded AccessPointRecord for scan result
// index into buf.
func (r *Radio) SerializeAP(index int, buf *[]byte) error {
	rec, ok := r.scanTable.At(index)
	if !ok {
		return ErrBadParameter
	}
	b, err := yaml.Marshal(rec)
	if err != nil {
		return ErrHardwareOrLibrary
	}
	*buf = b
	return nil
}

// ScanResults exposes the fixed-capacity scan table for read-only
// inspection (e.g. by the diagnostics server).
func (r *Radio) ScanResults() *ScanResultTable { return &r.scanTable }

// CurrentAP returns the AP the radio believes it is associated with.
func (r *Radio) CurrentAP() (AccessPointRecord, bool) { return r.currentAP, r.hasCurrentAP }

// Close tears down network-stack resources. After Close, any in-flight
// callback from the underlying driver into this Radio's EventSink
// methods becomes a no-op instead of touching freed state — the "weak
// reference resolves to absent" pattern from §9.
func (r *Radio) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.drv.WifiDeinit()
}

// Poll consumes mailboxes into one consistent latched snapshot, then
// advances the FSM at most once. Must be called periodically by the
// single driver thread.
func (r *Radio) Poll() state.PollVerdict {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mbScanDone.Latch()
	r.mbDisconnected.Latch()

	r.latched.WifiStarted = r.mbWifiStarted.Load()
	r.latched.StaConnected = r.mbStaConnected.Load()
	r.latched.IP4Valid = r.mbIP4Valid.Load()
	if r.latched.IP4Valid {
		r.latched.IP4Addr = r.mbIP4Addr.Load()
	} else {
		r.latched.IP4Addr = 0
	}
	r.latched.ScanDoneLatched = r.mbScanDone.Latched()
	r.latched.LastDiscReason = r.mbDiscReason.Load()

	// AUTH_REFUSED is evaluated exactly once per disconnect event, including
	// a failed first association attempt, so an application-initiated
	// ClearAuthRefused sticks until the next real disconnect rather than
	// being re-asserted from a stale reason code still sitting in the
	// mailbox.
	if r.mbDisconnected.Latched() {
		r.mbDisconnected.Consume()
		if isAuthFailure(DisconnectReason(r.latched.LastDiscReason)) {
			r.flags.SetBits(AuthRefused)
			r.log.Printf("radio: auth refused (disconnect reason %d)", r.latched.LastDiscReason)
		}
	}

	if r.machine.Advance() {
		return state.Action
	}
	return state.NoAction
}

//
// EventSink: written only by the async event-source thread. No driver
// calls, no FSM routing, no shared-state logging.
//

func (r *Radio) OnWifiStaStart() {
	if r.closed.Load() {
		return
	}
	r.mbWifiStarted.Store(true)
}

func (r *Radio) OnWifiStaConnected() {
	if r.closed.Load() {
		return
	}
	r.mbStaConnected.Store(true)
}

func (r *Radio) OnWifiStaDisconnected(reason uint16) {
	if r.closed.Load() {
		return
	}
	r.mbStaConnected.Store(false)
	r.mbIP4Valid.Store(false)
	r.mbIP4Addr.Store(0)
	r.mbDiscReason.Store(reason)
	r.mbDisconnected.Raise()
}

func (r *Radio) OnWifiScanDone() {
	if r.closed.Load() {
		return
	}
	r.mbScanDone.Raise()
}

func (r *Radio) OnIPStaGotIP(ip4 uint32) {
	if r.closed.Load() {
		return
	}
	r.mbIP4Addr.Store(ip4)
	r.mbIP4Valid.Store(true)
}

func (r *Radio) OnIPStaLostIP() {
	if r.closed.Load() {
		return
	}
	r.mbIP4Valid.Store(false)
	r.mbIP4Addr.Store(0)
}

//
// state.Transitioner[State]
//

// ReadyToAdvance implements the exit-check half of every state, §4.2's
// table. It may replan the route (Connected/Disconnected self-steering,
// the auto-reconnect backoff) but performs no side effects of its own.
func (r *Radio) ReadyToAdvance(current State, q *state.Queue[State]) bool {
	switch current {
	case Uninit:
		return q.IsNext(PreInit)

	case PreInit:
		return r.preInitComplete()

	case Resetting:
		return true // unconditional, single-tick

	case Init:
		return r.Initialized()

	case Scanning:
		if !r.latched.ScanDoneLatched {
			return false
		}
		r.collectScanResults()
		r.mbScanDone.Consume()
		r.latched.ScanDoneLatched = false
		return true

	case Promiscuous:
		return !q.IsEmpty()

	case Connecting:
		return r.latched.StaConnected // IP may arrive later

	case Connected:
		if q.IsEmpty() {
			if !r.latched.StaConnected {
				_ = q.Append([]State{Disconnected})
			} else {
				if ap, err := r.drv.StaGetApInfo(); err == nil {
					r.currentAP, r.hasCurrentAP = ap, true
				}
			}
		}
		return !q.IsEmpty()

	case Disconnecting:
		return !r.latched.StaConnected

	case Disconnected:
		if q.IsEmpty() {
			r.planDisconnectedRoute(q)
		}
		return !q.IsEmpty()

	case Sleeping, Waking:
		return false

	case Fault:
		return false // absorbing; only Init() clears it

	default:
		return false
	}
}

// planDisconnectedRoute implements the auto-reconnect policy from §4.2:
// immediate re-steer to Connected if the driver reports we're already
// associated again, otherwise a backoff-gated Connecting→Connected
// attempt, inhibited entirely while AUTH_REFUSED is sticky.
func (r *Radio) planDisconnectedRoute(q *state.Queue[State]) {
	if r.latched.StaConnected {
		_ = q.Append([]State{Connected})
		return
	}
	if !r.flags.Test(Autoconnect) || r.flags.Test(AuthRefused) {
		return
	}
	if !r.reconnectDeadline.Active() {
		r.reconnectDeadline.Arm(r.backoff.Next())
		return
	}
	if r.reconnectDeadline.Expired() {
		r.reconnectDeadline.Disarm()
		_ = q.Append([]State{Connecting, Connected})
	}
}

// Enter implements the entry-action half for each destination state.
func (r *Radio) Enter(prior, next State) bool {
	switch next {
	case Uninit:
		r.setFault("tried to enter UNINIT")
		return false

	case PreInit:
		return r.enterPreInit()

	case Resetting:
		r.flags.Mask(ResetMask)
		return true

	case Init:
		return r.enterInit()

	case Scanning:
		r.scanTable.Reset()
		r.mbScanDone.Consume()
		r.latched.ScanDoneLatched = false
		if err := r.drv.ScanStart(ScanConfig{}); err != nil {
			r.log.Printf("radio: scan start failed: %s", err)
			return false
		}
		return true

	case Promiscuous:
		return true

	case Connecting:
		if err := r.drv.Connect(); err != nil {
			r.log.Printf("radio: connect failed: %s", err)
			return false
		}
		return true

	case Connected:
		r.backoff.Reset()
		if ap, err := r.drv.StaGetApInfo(); err == nil {
			r.currentAP, r.hasCurrentAP = ap, true
		}
		return true

	case Disconnecting:
		if err := r.drv.Disconnect(); err != nil {
			r.log.Printf("radio: disconnect failed: %s", err)
			return false
		}
		return true

	case Disconnected:
		r.hasCurrentAP = false
		r.currentAP = AccessPointRecord{}
		r.mbIP4Valid.Store(false)
		r.mbIP4Addr.Store(0)
		return true

	case Sleeping, Waking:
		return true

	case Fault:
		r.setFault("explicit fsm waypoint")
		return true

	default:
		r.setFault("unhandled radio state")
		return false
	}
}

func (r *Radio) enterPreInit() bool {
	if !r.flags.Test(NetifInit) {
		r.flags.Set(NetifInit, r.drv.NetifInit() == nil)
	}
	if !r.flags.Test(EventLoopCreated) {
		if err := r.drv.EventLoopCreateDefault(); err == nil {
			r.flags.SetBits(EventLoopCreated)
			if err := r.drv.RegisterEventHandlers(r); err != nil {
				r.setFault("unable to register event handlers: " + err.Error())
				return false
			}
		} else {
			r.setFault("unable to create default event loop: " + err.Error())
			return false
		}
	}

	r.scanTable.Reset()
	r.hasCurrentAP = false
	r.currentAP = AccessPointRecord{}
	r.mbScanDone.Consume()
	r.latched.ScanDoneLatched = false
	r.mbDisconnected.Consume()
	r.mbStaConnected.Store(false)
	r.mbIP4Valid.Store(false)
	r.mbIP4Addr.Store(0)
	return true
}

func (r *Radio) enterInit() bool {
	if !r.flags.Test(WifiInit) {
		r.flags.Set(WifiInit, r.drv.WifiInit() == nil)
	}
	if !r.flags.Test(InitAsStation) {
		if err := r.drv.CreateDefaultSTANetif(); err == nil {
			r.flags.Set(InitAsStation, r.drv.SetModeStation() == nil)
		}
	}
	if r.flags.Test(InitAsStation) && !r.flags.Test(WifiStarted) {
		r.flags.Set(WifiStarted, r.drv.WifiStart() == nil)
	}
	return true
}

func (r *Radio) collectScanResults() {
	total, err := r.drv.ScanGetApNum()
	if err != nil {
		r.log.Printf("radio: scan_get_ap_num failed: %s", err)
		return
	}
	recs, err := r.drv.ScanGetApRecords(DefaultScanCapacity)
	if err != nil {
		r.log.Printf("radio: scan_get_ap_records failed: %s", err)
		return
	}
	r.scanTable.fill(total, recs)
}

func (r *Radio) setFault(msg string) {
	r.log.Printf("radio: FAULT: %s", msg)
	r.machine.MarkCurrentState(Fault)
}
