package main

import (
	"embed"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/jspark311/esp32-connectivity-core/internal/status"
	"github.com/jspark311/esp32-connectivity-core/mqttclient"
)

//go:embed config/*
var embedFsys embed.FS

const embedConfigDir = "config"

// RadioConfig is the radio half of the YAML document cmd/esp32link loads.
type RadioConfig struct {
	SSID        string `yaml:"ssid"`
	Password    string `yaml:"password"`
	AutoConnect bool   `yaml:"autoConnect"`
}

// AppConfig is the whole of cmd/esp32link's configuration surface: radio
// credentials, broker connection, desired subscriptions, and the
// diagnostics server's listen address.
type AppConfig struct {
	Radio         RadioConfig               `yaml:"radio"`
	Broker        mqttclient.BrokerConfig   `yaml:"broker"`
	Subscriptions []mqttclient.Subscription `yaml:"subscriptions"`
	Status        status.Config             `yaml:"status"`
}

var yamlExts = []string{".yaml", ".yml"}

// loadConfig walks fsys under path, merging every YAML document it finds
// into cfg in directory order. Later files overwrite earlier ones field by
// field (yaml.Unmarshal into the same struct), matching the teacher's
// embedded-defaults-then-external-override loading pattern.
func loadConfig(fsys fs.FS, path string, cfg *AppConfig) error {
	return fs.WalkDir(fsys, path, func(subPath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !slices.Contains(yamlExts, filepath.Ext(d.Name())) {
			log.Printf("...skipped %s", subPath)
			return nil
		}
		b, err := fs.ReadFile(fsys, subPath)
		if err != nil {
			log.Printf("...%s %s", subPath, err)
			return nil
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			log.Printf("...error loading %s: %s", subPath, err)
			return err
		}
		log.Printf("...loaded %s", subPath)
		return nil
	})
}

// loadAppConfig loads the embedded default config, then merges an external
// override directory on top if externConfigDir is non-empty.
func loadAppConfig(externConfigDir string) (*AppConfig, error) {
	cfg := &AppConfig{}

	log.Printf("load embedded configuration files")
	if err := loadConfig(embedFsys, embedConfigDir, cfg); err != nil {
		return nil, err
	}

	if externConfigDir != "" {
		log.Printf("load external configuration files at %s", externConfigDir)
		externFsys := os.DirFS(externConfigDir)
		if err := loadConfig(externFsys, ".", cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
