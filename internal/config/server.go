package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP listener parameters. Durations are Go duration
// strings. WriteTimeout bounds a whole chat exchange, including the model
// completion, so it is longer than the read side.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, src := range c.durations(overlay) {
		if *src != "" {
			*dst = *src
		}
	}
}

// durations pairs each duration field of c with the same field of other.
func (c *ServerConfig) durations(other *ServerConfig) map[*string]*string {
	return map[*string]*string{
		&c.ReadHeaderTimeout: &other.ReadHeaderTimeout,
		&c.ReadTimeout:       &other.ReadTimeout,
		&c.WriteTimeout:      &other.WriteTimeout,
		&c.IdleTimeout:       &other.IdleTimeout,
		&c.ShutdownTimeout:   &other.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	setDefault(&c.ReadHeaderTimeout, "10s")
	setDefault(&c.ReadTimeout, "30s")
	setDefault(&c.WriteTimeout, "2m")
	setDefault(&c.IdleTimeout, "2m")
	setDefault(&c.ShutdownTimeout, "30s")
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv("COMPANION_SERVER_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("COMPANION_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}

	env := map[string]*string{
		"COMPANION_SERVER_READ_HEADER_TIMEOUT": &c.ReadHeaderTimeout,
		"COMPANION_SERVER_READ_TIMEOUT":        &c.ReadTimeout,
		"COMPANION_SERVER_WRITE_TIMEOUT":       &c.WriteTimeout,
		"COMPANION_SERVER_IDLE_TIMEOUT":        &c.IdleTimeout,
		"COMPANION_SERVER_SHUTDOWN_TIMEOUT":    &c.ShutdownTimeout,
	}
	for key, dst := range env {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", f.name)
		}
	}
	return nil
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
