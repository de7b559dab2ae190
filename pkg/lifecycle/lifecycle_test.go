package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/companion/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if lc.Ready() {
		t.Error("should not be ready after Shutdown")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "shutdown timeout") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestOnCloseErrors(t *testing.T) {
	lc := lifecycle.New()
	errClose := errors.New("socket already closed")

	var closed atomic.Int32
	lc.OnClose("database", func() error {
		closed.Add(1)
		return nil
	})
	lc.OnClose("sentiment", func() error {
		closed.Add(1)
		return errClose
	})

	lc.WaitForStartup()
	err := lc.Shutdown(time.Second)

	if closed.Load() != 2 {
		t.Errorf("close hooks run: got %d, want 2", closed.Load())
	}
	if !errors.Is(err, errClose) {
		t.Fatalf("Shutdown() = %v, want wrapped %v", err, errClose)
	}
	if !strings.Contains(err.Error(), "sentiment:") {
		t.Errorf("error %q missing hook name", err)
	}
}

func TestGoWorker(t *testing.T) {
	tests := []struct {
		name    string
		result  error
		wantErr bool
	}{
		{"cancelled", context.Canceled, false},
		{"clean exit", nil, false},
		{"failure", errors.New("watch failed"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := lifecycle.New()

			var stopped atomic.Bool
			lc.Go("intent watch", func(ctx context.Context) error {
				<-ctx.Done()
				stopped.Store(true)
				return tt.result
			})

			lc.WaitForStartup()
			err := lc.Shutdown(time.Second)

			if !stopped.Load() {
				t.Error("worker did not observe cancellation")
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Shutdown() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}
