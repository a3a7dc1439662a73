package status

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

type fakeProvider struct{ snap Snapshot }

func (f fakeProvider) Snapshot() Snapshot { return f.snap }

func testServerStatusHandlerServesJSON(t *testing.T) {
	p := fakeProvider{snap: Snapshot{
		Radio: RadioSnapshot{State: "CONNECTED", LinkUp: true, HasIP: true, IP4: "10.0.0.5"},
		Mqtt:  MqttSnapshot{State: "CONNECTED", Initialized: true, Connected: true, Subscriptions: 2},
	}}
	s := New(nil, &Config{}, p)

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var got Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %s", err)
	}
	if got.Radio.State != "CONNECTED" || got.Mqtt.Subscriptions != 2 {
		t.Fatalf("got %+v", got)
	}
}

func testServerStatusHandlerRejectsNonGet(t *testing.T) {
	s := New(nil, &Config{}, fakeProvider{})
	req := httptest.NewRequest("POST", "/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != 405 {
		t.Fatalf("status code = %d, want 405", rec.Code)
	}
}

func TestServer(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"StatusHandlerServesJSON", testServerStatusHandlerServesJSON},
		{"StatusHandlerRejectsNonGet", testServerStatusHandlerRejectsNonGet},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
