package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/companion/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"client error", http.StatusBadRequest, "level=WARN"},
		{"server error", http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs strings.Builder
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			handlers.RespondError(rec, logger, tt.status, errors.New("invalid input"))

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]string
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if parsed["error"] != "invalid input" {
				t.Errorf("error: got %s, want invalid input", parsed["error"])
			}
			if !strings.Contains(logs.String(), tt.wantLevel) {
				t.Errorf("log %q missing %s", logs.String(), tt.wantLevel)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Input string `json:"input"`
	}

	tests := []struct {
		name       string
		body       string
		maxBytes   int64
		want       string
		wantErr    error
		wantStatus int
	}{
		{name: "decodes body", body: `{"input":"hello"}`, maxBytes: 1024, want: "hello"},
		{name: "trailing whitespace", body: "{\"input\":\"hi\"}\n", maxBytes: 1024, want: "hi"},
		{name: "unlimited", body: `{"input":"hello"}`, want: "hello"},
		{
			name:       "oversized body",
			body:       `{"input":"` + strings.Repeat("x", 64) + `"}`,
			maxBytes:   16,
			wantErr:    handlers.ErrBodyTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "trailing value",
			body:       `{"input":"a"}{"input":"b"}`,
			wantErr:    handlers.ErrTrailingData,
			wantStatus: http.StatusBadRequest,
		},
		{name: "malformed json", body: `{"input":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			got, err := handlers.DecodeJSON[payload](rec, req, tt.maxBytes)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got.Input != tt.want {
					t.Errorf("input: got %q, want %q", got.Input, tt.want)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
			if status := handlers.DecodeStatus(err); status != tt.wantStatus {
				t.Errorf("status: got %d, want %d", status, tt.wantStatus)
			}
		})
	}
}
