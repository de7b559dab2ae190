package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/companion/pkg/formatting"
	"github.com/JaimeStill/companion/pkg/middleware"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/pagination"
)

const (
	EnvAPIBasePath       = "COMPANION_API_BASE_PATH"
	EnvAPIMaxRequestSize = "COMPANION_API_MAX_REQUEST_SIZE"

	defaultMaxRequestSize = 1 << 20
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COMPANION_CORS_ENABLED",
	Origins:          "COMPANION_CORS_ORIGINS",
	AllowedMethods:   "COMPANION_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COMPANION_CORS_ALLOWED_HEADERS",
	AllowCredentials: "COMPANION_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COMPANION_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "COMPANION_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "COMPANION_PAGINATION_MAX_PAGE_SIZE",
	MaxSearchLength: "COMPANION_PAGINATION_MAX_SEARCH_LENGTH",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "COMPANION_OPENAPI_TITLE",
	Description: "COMPANION_OPENAPI_DESCRIPTION",
	ServerURL:   "COMPANION_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing, request limits, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return defaultMaxRequestSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
}
