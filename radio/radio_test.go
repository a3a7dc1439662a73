package radio_test

import (
	"testing"

	"github.com/jspark311/esp32-connectivity-core/radio"
	"github.com/jspark311/esp32-connectivity-core/radio/simdriver"
	"github.com/jspark311/esp32-connectivity-core/state"
)

func pollUntilStable(t *testing.T, r *radio.Radio, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		r.Poll()
	}
}

func testRadioColdStartToIP(t *testing.T) {
	world := simdriver.NewWorld()
	world.AddAP(radio.AccessPointRecord{SSID: "home", AuthMode: radio.AuthWpa2Psk})
	world.TrustCredentials("home", "correct-password")
	sim := simdriver.New(world, 0xC0A80002)

	r := radio.New(nil, sim)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %s", err)
	}
	pollUntilStable(t, r, 10)
	if !r.Initialized() {
		t.Fatal("expected radio initialized after bring-up polls")
	}
	if r.CurrentState() != radio.Disconnected {
		t.Fatalf("state = %s, want DISCONNECTED", r.CurrentState())
	}

	if err := r.Associate("home", "correct-password"); err != nil {
		t.Fatalf("Associate: %s", err)
	}
	if err := r.AppendConnectRoute(); err != nil {
		t.Fatalf("AppendConnectRoute: %s", err)
	}
	pollUntilStable(t, r, 10)

	if r.CurrentState() != radio.Connected {
		t.Fatalf("state = %s, want CONNECTED", r.CurrentState())
	}
	if !r.LinkUp() || !r.HasIP() {
		t.Fatal("expected link up and IP present once connected")
	}
	if r.IP4() != 0xC0A80002 {
		t.Fatalf("IP4 = %#x, want %#x", r.IP4(), 0xC0A80002)
	}
}

func testRadioTransientDropAutoReconnects(t *testing.T) {
	world := simdriver.NewWorld()
	world.AddAP(radio.AccessPointRecord{SSID: "home", AuthMode: radio.AuthWpa2Psk})
	world.TrustCredentials("home", "pw")
	sim := simdriver.New(world, 0x0A000001)

	r := radio.New(nil, sim)
	r.TestBackoff().Initial = 0 // collapse backoff so the test doesn't depend on wall clock
	r.TestBackoff().Max = 0
	r.SetAutoconnect(true)
	_ = r.Init()
	pollUntilStable(t, r, 10)
	_ = r.Associate("home", "pw")
	_ = r.AppendConnectRoute()
	pollUntilStable(t, r, 10)
	if r.CurrentState() != radio.Connected {
		t.Fatalf("precondition: state = %s, want CONNECTED", r.CurrentState())
	}

	sim.DeliverDisconnect(radio.ReasonAssocExpire)
	pollUntilStable(t, r, 30)

	if r.AuthRefused() {
		t.Fatal("association-expired (reason=4, non-auth) must not set AUTH_REFUSED")
	}
	if r.CurrentState() != radio.Connected {
		t.Fatalf("expected auto-reconnect back to CONNECTED, got %s", r.CurrentState())
	}
}

func testRadioAuthFailureHaltsReconnect(t *testing.T) {
	world := simdriver.NewWorld()
	world.AddAP(radio.AccessPointRecord{SSID: "locked", AuthMode: radio.AuthWpa2Psk})
	world.RefuseAuth("locked")
	sim := simdriver.New(world, 0x0A000002)

	r := radio.New(nil, sim)
	r.TestBackoff().Initial = 0
	r.TestBackoff().Max = 0
	r.SetAutoconnect(true)
	_ = r.Init()
	pollUntilStable(t, r, 10)
	_ = r.Associate("locked", "whatever")
	_ = r.AppendConnectRoute()
	pollUntilStable(t, r, 30)

	if !r.AuthRefused() {
		t.Fatal("expected AUTH_REFUSED to be set after refused association")
	}
	if r.CurrentState() == radio.Connected {
		t.Fatal("must not reach CONNECTED while auth is refused")
	}

	r.ClearAuthRefused()
	pollUntilStable(t, r, 30)
	if r.AuthRefused() {
		t.Fatal("ClearAuthRefused should not be re-asserted without a fresh disconnect")
	}
}

func testRadioScanFromConnected(t *testing.T) {
	world := simdriver.NewWorld()
	world.AddAP(radio.AccessPointRecord{SSID: "home", AuthMode: radio.AuthWpa2Psk})
	world.AddAP(radio.AccessPointRecord{SSID: "neighbor", AuthMode: radio.AuthOpen})
	world.TrustCredentials("home", "pw")
	sim := simdriver.New(world, 0x0A000003)

	r := radio.New(nil, sim)
	_ = r.Init()
	pollUntilStable(t, r, 10)
	_ = r.Associate("home", "pw")
	_ = r.AppendConnectRoute()
	pollUntilStable(t, r, 10)
	if r.CurrentState() != radio.Connected {
		t.Fatalf("precondition: state = %s, want CONNECTED", r.CurrentState())
	}

	if err := r.WifiScan(); err != nil {
		t.Fatalf("WifiScan: %s", err)
	}
	pollUntilStable(t, r, 10)

	if r.CurrentState() != radio.Connected {
		t.Fatalf("expected scan to return to CONNECTED, got %s", r.CurrentState())
	}
	if r.ScanResults().Collected() != 2 {
		t.Fatalf("collected = %d, want 2", r.ScanResults().Collected())
	}
}

func testRadioCloseIsIdempotentAndQuietsEventSink(t *testing.T) {
	world := simdriver.NewWorld()
	sim := simdriver.New(world, 0)
	r := radio.New(nil, sim)
	_ = r.Init()
	pollUntilStable(t, r, 10)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %s", err)
	}

	r.OnWifiStaConnected() // must be a no-op post-close, not a panic or mailbox write
	if r.Poll() != state.NoAction {
		t.Fatal("expected no action after close")
	}
}

func TestRadio(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"ColdStartToIP", testRadioColdStartToIP},
		{"TransientDropAutoReconnects", testRadioTransientDropAutoReconnects},
		{"AuthFailureHaltsReconnect", testRadioAuthFailureHaltsReconnect},
		{"ScanFromConnected", testRadioScanFromConnected},
		{"CloseIsIdempotentAndQuietsEventSink", testRadioCloseIsIdempotentAndQuietsEventSink},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
