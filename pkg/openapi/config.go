package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds OpenAPI metadata for spec generation. ServerURL is the
// public origin the API is reached at; when empty the document lists the
// base path alone so clients resolve it against wherever they loaded it.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
}

// Server returns the server URL advertised for an API mounted at basePath.
func (c *Config) Server(basePath string) string {
	if c.ServerURL == "" {
		return basePath
	}
	return strings.TrimSuffix(c.ServerURL, "/") + basePath
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Companion API"
	}
	if c.Description == "" {
		c.Description = "Conversational companion with intent and action classification."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	overrides := []struct {
		key string
		dst *string
	}{
		{env.Title, &c.Title},
		{env.Description, &c.Description},
		{env.ServerURL, &c.ServerURL},
	}
	for _, o := range overrides {
		if o.key == "" {
			continue
		}
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return nil
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url must be an absolute URL: %q", c.ServerURL)
	}
	return nil
}
