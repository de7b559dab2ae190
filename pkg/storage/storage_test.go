package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/companion/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=companionstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/companionstore;"

func TestNewReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "companion",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "companion",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	cfg := &storage.Config{ContainerName: "companion"}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error without connection_string or service_url, got nil")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "companion",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "artifacts/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "artifacts/..hidden/run.tar.zst", storage.ErrInvalidKey},
		{"absolute", "/artifacts/run.tar.zst", storage.ErrInvalidKey},
		{"backslash", `artifacts\run.tar.zst`, storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/zstd"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
