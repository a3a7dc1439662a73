package mqttclient

import "testing"

func testReassemblerPassesThroughWholeMessages(t *testing.T) {
	r := newReassembler()
	msg, ok := r.Feed(fragment{Topic: "a/b", Payload: []byte("hello"), Offset: 0, Total: 5})
	if !ok {
		t.Fatal("expected a whole message to complete immediately")
	}
	if string(msg.Payload) != "hello" {
		t.Fatalf("payload = %q", msg.Payload)
	}
}

func testReassemblerCoalescesFragments(t *testing.T) {
	r := newReassembler()
	if _, ok := r.Feed(fragment{Topic: "a/b", Payload: []byte("hel"), Offset: 0, Total: 5}); ok {
		t.Fatal("expected first fragment to stay partial")
	}
	msg, ok := r.Feed(fragment{Topic: "a/b", Payload: []byte("lo"), Offset: 3, Total: 5})
	if !ok {
		t.Fatal("expected second fragment to complete the message")
	}
	if string(msg.Payload) != "hello" {
		t.Fatalf("payload = %q, want hello", msg.Payload)
	}
}

func testReassemblerTracksTopicsIndependently(t *testing.T) {
	r := newReassembler()
	r.Feed(fragment{Topic: "a/b", Payload: []byte("xx"), Offset: 0, Total: 4})
	r.Feed(fragment{Topic: "c/d", Payload: []byte("whole"), Offset: 0, Total: 5})
	msg, ok := r.Feed(fragment{Topic: "a/b", Payload: []byte("yy"), Offset: 2, Total: 4})
	if !ok || string(msg.Payload) != "xxyy" {
		t.Fatalf("got ok=%v payload=%q, want xxyy", ok, msg.Payload)
	}
}

func testReassemblerResetDiscardsPartials(t *testing.T) {
	r := newReassembler()
	r.Feed(fragment{Topic: "a/b", Payload: []byte("xx"), Offset: 0, Total: 4})
	r.Reset()
	if _, ok := r.Feed(fragment{Topic: "a/b", Payload: []byte("yy"), Offset: 2, Total: 4}); ok {
		t.Fatal("stale offset-2 fragment must not complete against a reset buffer")
	}
}

func TestReassembler(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"PassesThroughWholeMessages", testReassemblerPassesThroughWholeMessages},
		{"CoalescesFragments", testReassemblerCoalescesFragments},
		{"TracksTopicsIndependently", testReassemblerTracksTopicsIndependently},
		{"ResetDiscardsPartials", testReassemblerResetDiscardsPartials},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
