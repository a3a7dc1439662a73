package mqttclient

import (
	"strings"
	"testing"
)

func testBrokerConfigValidateRequiresURI(t *testing.T) {
	if err := (BrokerConfig{}).validate(); err == nil {
		t.Fatal("expected error for missing uri")
	}
	if err := (BrokerConfig{URI: "tcp://broker:1883"}).validate(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func testBrokerConfigStringRedactsPassword(t *testing.T) {
	b := BrokerConfig{Label: "home", URI: "tcp://broker:1883", Username: "dev", Password: "secret"}
	s := b.String()
	if strings.Contains(s, "secret") {
		t.Fatalf("password leaked into debug string: %q", s)
	}
	if !strings.Contains(s, "dev") {
		t.Fatalf("expected username in debug string: %q", s)
	}
}

func TestBrokerConfig(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"ValidateRequiresURI", testBrokerConfigValidateRequiresURI},
		{"StringRedactsPassword", testBrokerConfigStringRedactsPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
