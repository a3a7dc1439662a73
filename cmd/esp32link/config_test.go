package main

import (
	"testing"
	"testing/fstest"

	"github.com/jspark311/esp32-connectivity-core/mqttclient"
)

func testLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := loadAppConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Broker.URI == "" {
		t.Fatal("expected embedded default broker uri")
	}
	if cfg.Status.Port == "" {
		t.Fatal("expected embedded default status port")
	}
	if len(cfg.Subscriptions) == 0 {
		t.Fatal("expected embedded default subscriptions")
	}
}

func testLoadExternalOverridesEmbedded(t *testing.T) {
	cfg := &AppConfig{Broker: mqttclient.BrokerConfig{URI: "tcp://localhost:1883"}}
	if err := loadConfig(embedFsys, embedConfigDir, cfg); err != nil {
		t.Fatal(err)
	}
	externFsys := fstest.MapFS{
		"override.yaml": &fstest.MapFile{Data: []byte("broker:\n  uri: tcp://broker.example:1883\n")},
	}
	if err := loadConfig(externFsys, ".", cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Broker.URI != "tcp://broker.example:1883" {
		t.Fatalf("broker uri = %q, want override", cfg.Broker.URI)
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"LoadEmbeddedDefaults", testLoadEmbeddedDefaults},
		{"LoadExternalOverridesEmbedded", testLoadExternalOverridesEmbedded},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
