// Package lifecycle coordinates process startup, background workers, and
// ordered teardown for the server and CLI.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup hooks, background workers, and shutdown hooks.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	ready   bool
	readyMu sync.RWMutex

	errMu sync.Mutex
	errs  []error
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// OnClose registers a cleanup that runs once the context is cancelled.
// A non-nil error is reported by Shutdown, prefixed with name.
func (c *Coordinator) OnClose(name string, fn func() error) {
	c.shutdownWg.Go(func() {
		<-c.ctx.Done()
		if err := fn(); err != nil {
			c.record(fmt.Errorf("%s: %w", name, err))
		}
	})
}

// Go runs a background worker bound to the coordinator context. Shutdown
// waits for the worker to return. context.Canceled is not reported.
func (c *Coordinator) Go(name string, fn func(ctx context.Context) error) {
	c.shutdownWg.Go(func() {
		if err := fn(c.ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.record(fmt.Errorf("%s: %w", name, err))
		}
	})
}

func (c *Coordinator) record(err error) {
	c.errMu.Lock()
	c.errs = append(c.errs, err)
	c.errMu.Unlock()
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks and workers
// within the given timeout. Errors recorded by OnClose and Go hooks are
// joined into the result.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.readyMu.Lock()
	c.ready = false
	c.readyMu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return errors.Join(fmt.Errorf("shutdown timeout after %v", timeout), c.collected())
	}

	return c.collected()
}

func (c *Coordinator) collected() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return errors.Join(c.errs...)
}
