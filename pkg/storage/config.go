package storage

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
)

// Azure container names: 3-63 lowercase letters, digits, and single hyphens,
// starting and ending with a letter or digit.
var containerName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,}$`)

// Config holds Azure Blob Storage connection parameters for published
// artifact bundles. A connection string takes precedence over ServiceURL.
// When only ServiceURL is set, the client authenticates with the default
// Azure credential chain. With neither, storage is disabled.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	MaxListSize      string
}

// Enabled reports whether any endpoint is configured.
func (c *Config) Enabled() bool {
	return c.ConnectionString != "" || c.ServiceURL != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range map[*string]string{
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.ServiceURL:       overlay.ServiceURL,
	} {
		if v != "" {
			*dst = v
		}
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "companion"
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)
}

func (c *Config) loadEnv(env *Env) {
	for dst, key := range map[*string]string{
		&c.ContainerName:    env.ContainerName,
		&c.ConnectionString: env.ConnectionString,
		&c.ServiceURL:       env.ServiceURL,
	} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if env.MaxListSize != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxListSize)); err == nil && n > 0 {
			c.MaxListSize = int32(min(n, int(MaxListCap)))
		}
	}
}

func (c *Config) validate() error {
	if len(c.ContainerName) > 63 || !containerName.MatchString(c.ContainerName) {
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	}
	if c.ConnectionString == "" && c.ServiceURL != "" {
		u, err := url.Parse(c.ServiceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid service_url %q", c.ServiceURL)
		}
	}
	return nil
}
