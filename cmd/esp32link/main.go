// Command esp32link demonstrates the radio and mqttclient FSMs wired
// together against a deterministic simulated Wi-Fi driver and a real MQTT
// broker connection, serving a diagnostics snapshot over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jspark311/esp32-connectivity-core/internal/status"
	"github.com/jspark311/esp32-connectivity-core/loop"
	"github.com/jspark311/esp32-connectivity-core/mqttclient"
	"github.com/jspark311/esp32-connectivity-core/radio"
	"github.com/jspark311/esp32-connectivity-core/radio/simdriver"
)

const (
	envSSID      = "ESP32LINK_SSID"
	envPassword  = "ESP32LINK_PASSWORD"
	envBrokerURI = "ESP32LINK_BROKER_URI"

	simNextIP = 0x0A000001 // 10.0.0.1, reported by simdriver on a successful connect
)

// snapshotProvider adapts a live Radio/MqttClient pair to status.Provider.
type snapshotProvider struct {
	r *radio.Radio
	m *mqttclient.MqttClient
}

func (p snapshotProvider) Snapshot() status.Snapshot {
	var ip string
	if p.r.HasIP() {
		ip = ip4String(p.r.IP4())
	}
	ap, _ := p.r.CurrentAP()
	return status.Snapshot{
		Radio: status.RadioSnapshot{
			State:        p.r.CurrentState().String(),
			LinkUp:       p.r.LinkUp(),
			HasIP:        p.r.HasIP(),
			IP4:          ip,
			AuthRefused:  p.r.AuthRefused(),
			Autoconnect:  p.r.Autoconnect(),
			AssociatedTo: ap.SSID,
		},
		Mqtt: status.MqttSnapshot{
			State:         p.m.CurrentState().String(),
			Initialized:   p.m.Initialized(),
			Connected:     p.m.Connected(),
			Subscriptions: p.m.Subscriptions().Len(),
			Broker:        p.m.Broker().Label,
		},
	}
}

func ip4String(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

func main() {
	configDir := flag.String("configDir", "", "external configuration directory")
	ssid := flag.String("ssid", lookupEnv(envSSID, ""), "Wi-Fi SSID (overrides config file)")
	password := flag.String("password", lookupEnv(envPassword, ""), "Wi-Fi password (overrides config file)")
	brokerURI := flag.String("brokerUri", lookupEnv(envBrokerURI, ""), "MQTT broker URI (overrides config file)")
	flag.Parse()

	cfg, err := loadAppConfig(*configDir)
	if err != nil {
		log.Fatal(err)
	}
	if *ssid != "" {
		cfg.Radio.SSID = *ssid
	}
	if *password != "" {
		cfg.Radio.Password = *password
	}
	if *brokerURI != "" {
		cfg.Broker.URI = *brokerURI
	}

	lg := log.New(os.Stderr, "esp32link: ", log.LstdFlags)

	world := simdriver.NewWorld()
	if cfg.Radio.SSID != "" {
		world.AddAP(radio.AccessPointRecord{SSID: cfg.Radio.SSID, AuthMode: radio.AuthWpa2Psk})
		world.TrustCredentials(cfg.Radio.SSID, cfg.Radio.Password)
	}
	drv := simdriver.New(world, simNextIP)

	r := radio.New(lg, drv)
	if err := r.Init(); err != nil {
		log.Fatal(err)
	}
	r.SetAutoconnect(cfg.Radio.AutoConnect)

	m := mqttclient.New(lg, r)
	if err := m.SetBroker(cfg.Broker); err != nil {
		log.Fatal(err)
	}
	for _, sub := range cfg.Subscriptions {
		if err := m.Subscriptions().Add(sub.Filter, sub.QoS); err != nil {
			log.Printf("subscription %q: %s", sub.Filter, err)
		}
	}
	m.SetAutoreconnect(true)
	if err := m.Init(); err != nil {
		log.Fatal(err)
	}

	if cfg.Radio.SSID != "" {
		if err := r.Associate(cfg.Radio.SSID, cfg.Radio.Password); err != nil {
			log.Printf("associate: %s", err)
		}
		if err := r.AppendConnectRoute(); err != nil {
			log.Printf("connect route: %s", err)
		}
	}

	srv := status.New(lg, &cfg.Status, snapshotProvider{r: r, m: m})
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("shutting down")
		cancel()
	}()

	if err := loop.Run(ctx, r, m); err != nil {
		log.Printf("loop exited: %s", err)
	}

	_ = m.Close()
	_ = r.Close()
	_ = srv.Close()
}
