package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/companion/internal/auth"
	"github.com/JaimeStill/companion/pkg/routes"
)

type mockSystem struct {
	verifyFn func(ctx context.Context, username, password string) (bool, error)
}

func (m *mockSystem) Handler() *auth.Handler {
	return auth.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) Verify(ctx context.Context, username, password string) (bool, error) {
	return m.verifyFn(ctx, username, password)
}

func (m *mockSystem) Create(context.Context, auth.CreateCommand) (*auth.User, error) {
	return nil, errors.New("not implemented")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "1234" {
		t.Fatal("hash equals the plaintext")
	}

	ok, err := auth.CheckPassword(hash, "1234")
	if err != nil || !ok {
		t.Errorf("CheckPassword(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = auth.CheckPassword(hash, "abcd")
	if err != nil || ok {
		t.Errorf("CheckPassword(wrong) = %v, %v; want false, nil", ok, err)
	}

	if _, err := auth.CheckPassword("not-a-hash", "1234"); err == nil {
		t.Error("CheckPassword(malformed hash) returned no error")
	}
}

func TestHandlerVerify(t *testing.T) {
	users := map[string]string{"hohoyeol": "1234", "minji": "abcd"}
	sys := &mockSystem{
		verifyFn: func(_ context.Context, username, password string) (bool, error) {
			if username == "broken" {
				return false, errors.New("database down")
			}
			pw, ok := users[username]
			return ok && pw == password, nil
		},
	}
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantVerified bool
	}{
		{"valid", `{"username":"minji","password":"abcd"}`, http.StatusOK, true},
		{"wrong password", `{"username":"minji","password":"1234"}`, http.StatusOK, false},
		{"unknown user", `{"username":"nobody","password":"x"}`, http.StatusOK, false},
		{"malformed", `{"username":`, http.StatusBadRequest, false},
		{"store error", `{"username":"broken","password":"x"}`, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/verify", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got auth.Verification
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Verified != tt.wantVerified {
				t.Errorf("verified = %v, want %v", got.Verified, tt.wantVerified)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrNotFound, http.StatusNotFound},
		{auth.ErrDuplicate, http.StatusConflict},
		{auth.ErrInvalidUser, http.StatusBadRequest},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := auth.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
