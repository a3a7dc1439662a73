// Package simdriver provides a deterministic in-memory radio.Driver, used
// by the radio package's own tests and by the cmd/esp32link demo binary.
// There is no portable ESP-IDF Go binding to test against, so this stands
// in for the real network stack: it has no goroutines of its own and only
// reports events when the test or demo caller tells it to.
package simdriver

import (
	"sync"

	"github.com/jspark311/esp32-connectivity-core/radio"
)

// World is the fixture a Sim reports against: a small set of APs it can
// "see" on scan, and a named AP it will successfully associate with on
// Connect.
type World struct {
	mu      sync.Mutex
	aps     []radio.AccessPointRecord
	trusted map[string]string // ssid -> expected password; "" means open
	refuse  map[string]bool   // ssid -> always refuse auth
}

// NewWorld constructs an empty fixture.
func NewWorld() *World {
	return &World{trusted: make(map[string]string), refuse: make(map[string]bool)}
}

// AddAP adds an AP to the scan result set.
func (w *World) AddAP(rec radio.AccessPointRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.aps = append(w.aps, rec)
}

// TrustCredentials registers the password Connect will accept for ssid.
func (w *World) TrustCredentials(ssid, password string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trusted[ssid] = password
}

// RefuseAuth forces every Connect attempt against ssid to fail with an
// auth-related disconnect reason, regardless of credentials offered.
func (w *World) RefuseAuth(ssid string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refuse[ssid] = true
}

// Sim is a radio.Driver bound to a World. All state transitions happen
// synchronously inside the Driver methods; Sim never spawns goroutines,
// so callers drive timing entirely through explicit method calls
// (DeliverGotIP, DeliverDisconnect, etc.) interleaved with Radio.Poll.
type Sim struct {
	world *World
	sink  radio.EventSink

	mu        sync.Mutex
	staCfg    radio.StaConfig
	connected bool
	nextIP    uint32
	lastScan  []radio.AccessPointRecord
	deinit    bool
}

// New constructs a Sim reporting against world. nextIP is the IPv4
// address (host byte order) Sim will report via OnIPStaGotIP after a
// successful Connect; callers may change it between connects with
// SetNextIP.
func New(world *World, nextIP uint32) *Sim {
	return &Sim{world: world, nextIP: nextIP}
}

// SetNextIP changes the address reported on the next successful connect.
func (s *Sim) SetNextIP(ip4 uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextIP = ip4
}

func (s *Sim) NetifInit() error             { return nil }
func (s *Sim) EventLoopCreateDefault() error { return nil }

func (s *Sim) RegisterEventHandlers(sink radio.EventSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
	return nil
}

func (s *Sim) WifiInit() error             { return nil }
func (s *Sim) CreateDefaultSTANetif() error { return nil }
func (s *Sim) SetModeStation() error        { return nil }

func (s *Sim) WifiStart() error {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink.OnWifiStaStart()
	}
	return nil
}

func (s *Sim) WifiStop() error { return nil }

func (s *Sim) WifiDeinit() error {
	s.mu.Lock()
	s.deinit = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) SetStaConfig(cfg radio.StaConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staCfg = cfg
	return nil
}

// Connect evaluates the World's credential/refusal fixtures synchronously
// and reports the outcome via the registered EventSink, matching the
// underlying library's pattern of reporting association results
// asynchronously off of a Connect call.
func (s *Sim) Connect() error {
	s.mu.Lock()
	cfg := s.staCfg
	sink := s.sink
	s.mu.Unlock()

	s.world.mu.Lock()
	refused := s.world.refuse[cfg.SSID]
	want, known := s.world.trusted[cfg.SSID]
	s.world.mu.Unlock()

	if sink == nil {
		return nil
	}
	if refused || (known && want != cfg.Password) {
		sink.OnWifiStaDisconnected(uint16(radio.ReasonAuthExpire))
		return nil
	}

	s.mu.Lock()
	s.connected = true
	ip := s.nextIP
	s.mu.Unlock()

	sink.OnWifiStaConnected()
	sink.OnIPStaGotIP(ip)
	return nil
}

func (s *Sim) Disconnect() error {
	s.mu.Lock()
	sink := s.sink
	s.connected = false
	s.mu.Unlock()
	if sink != nil {
		sink.OnIPStaLostIP()
		sink.OnWifiStaDisconnected(uint16(radio.ReasonUnspecified))
	}
	return nil
}

func (s *Sim) DeauthSta(aid uint16) error { return nil }

func (s *Sim) ScanStart(cfg radio.ScanConfig) error {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()

	s.world.mu.Lock()
	results := make([]radio.AccessPointRecord, len(s.world.aps))
	copy(results, s.world.aps)
	s.world.mu.Unlock()

	s.mu.Lock()
	s.lastScan = results
	s.mu.Unlock()

	if sink != nil {
		sink.OnWifiScanDone()
	}
	return nil
}

func (s *Sim) ScanGetApNum() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastScan), nil
}

func (s *Sim) ScanGetApRecords(max int) ([]radio.AccessPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.lastScan)
	if n > max {
		n = max
	}
	out := make([]radio.AccessPointRecord, n)
	copy(out, s.lastScan[:n])
	return out, nil
}

func (s *Sim) StaGetApInfo() (radio.AccessPointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return radio.AccessPointRecord{}, radio.ErrNotReady
	}
	for _, ap := range s.lastScan {
		if ap.SSID == s.staCfg.SSID {
			return ap, nil
		}
	}
	return radio.AccessPointRecord{SSID: s.staCfg.SSID}, nil
}

// DeliverDisconnect lets a test simulate an asynchronous drop (e.g. the AP
// rebooting) independent of any Disconnect() call from the FSM side.
func (s *Sim) DeliverDisconnect(reason radio.DisconnectReason) {
	s.mu.Lock()
	sink := s.sink
	s.connected = false
	s.mu.Unlock()
	if sink != nil {
		sink.OnIPStaLostIP()
		sink.OnWifiStaDisconnected(uint16(reason))
	}
}
