package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/companion/internal/api"
	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/internal/infrastructure"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/database"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/middleware"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/pagination"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	watch, matcher := false, true
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "companion",
			User:            "companion",
			Password:        "companion",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		API: config.APIConfig{
			BasePath:       "/api",
			MaxRequestSize: "1MB",
			CORS:           middleware.CORSConfig{Enabled: false},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{
				Title:       "Companion API",
				Description: "test",
			},
		},
		LLM: llm.Config{
			Provider:    llm.ProviderOllama,
			Model:       "llama3.1:8b",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.7,
		},
		Embedding: embedding.Config{
			Provider:   embedding.ProviderHash,
			Dimensions: 64,
		},
		Sentiment: sentiment.Config{Provider: sentiment.ProviderNone},
		Intent: intent.Config{
			ArtifactRoot: t.TempDir(),
			Matcher:      &matcher,
			Watch:        &watch,
		},
		Chat: chat.Config{
			HistoryTurns:  10,
			MaxInputRunes: 2000,
			DecideOn:      chat.DecideOnInput,
			Style:         "playful",
		},
		LogLevel:        "info",
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Logger == nil || runtime.Logger == infra.Logger {
		t.Error("runtime logger should be a module-scoped child")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Encoder == nil {
		t.Error("runtime encoder is nil")
	}
	if runtime.Lifecycle != infra.Lifecycle {
		t.Error("runtime lifecycle should be shared")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	runtime := api.NewRuntime(cfg, setupInfra(t, cfg))

	domain, err := api.NewDomain(runtime, cfg)
	if err != nil {
		t.Fatalf("NewDomain() error = %v", err)
	}
	if domain.Intent == nil || domain.Personas == nil || domain.Chat == nil || domain.Auth == nil {
		t.Fatalf("NewDomain() left a system nil: %+v", domain)
	}

	status := domain.Intent.Status()
	if status.Storage {
		t.Error("intent storage should be disabled without blob config")
	}
	if len(status.Actions) != len(intent.DefaultActions()) {
		t.Errorf("actions: got %d, want %d", len(status.Actions), len(intent.DefaultActions()))
	}
}

func TestSpec(t *testing.T) {
	cfg := validConfig(t)
	runtime := api.NewRuntime(cfg, setupInfra(t, cfg))

	domain, err := api.NewDomain(runtime, cfg)
	if err != nil {
		t.Fatalf("NewDomain() error = %v", err)
	}

	spec := api.Spec(cfg, api.Groups(domain)...)

	if spec.Info.Title != "Companion API" || spec.Info.Version != "0.1.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	for _, path := range []string{
		"/chat",
		"/chat/history",
		"/intent/decide",
		"/personas/{id}",
		"/auth/verify",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
	for _, schema := range []string{"Exchange", "Decision", "Persona", "Credentials"} {
		if _, ok := spec.Components.Schemas[schema]; !ok {
			t.Errorf("spec missing schema %s", schema)
		}
	}
}

func TestServeOpenAPI(t *testing.T) {
	cfg := validConfig(t)
	m, err := api.NewModule(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi version: got %v", doc["openapi"])
	}
}
