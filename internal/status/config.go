package status

import "net"

// Default values.
const (
	DefaultHost = "localhost"
	DefaultPort = "8080"
)

// Config represents the diagnostics HTTP server's listen configuration.
type Config struct {
	Host string
	Port string
}

func (c *Config) port() string {
	if c.Port == "" {
		return DefaultPort
	}
	return c.Port
}

func (c *Config) addr() string { return net.JoinHostPort(c.Host, c.port()) }
