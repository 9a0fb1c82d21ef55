package reminder

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Transport delivers one notification. The outcome is observed only for
// logging and counters; there is no retry or dead-letter handling.
type Transport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher fans out notifications without blocking the caller. Every send
// runs in its own goroutine, tracked by a WaitGroup and capped by a
// semaphore so a burst of matches cannot spawn unbounded work.
type Dispatcher struct {
	transport Transport
	sem       *semaphore.Weighted
	timeout   time.Duration

	wg     sync.WaitGroup
	sent   atomic.Int64
	failed atomic.Int64
}

// NewDispatcher creates a Dispatcher with at most maxConcurrent in-flight
// sends and a per-send timeout. Zero or negative arguments fall back to
// 8 concurrent sends and a 30s timeout.
func NewDispatcher(transport Transport, maxConcurrent int, timeout time.Duration) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		transport: transport,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		timeout:   timeout,
	}
}

// Dispatch sends one notification in the background and returns immediately.
func (d *Dispatcher) Dispatch(to, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sem.Acquire(ctx, 1); err != nil {
			d.failed.Add(1)
			log.Printf("reminder: dispatch to %s dropped: %v", to, err)
			return
		}
		defer d.sem.Release(1)

		if err := d.transport.Send(ctx, to, subject, body); err != nil {
			d.failed.Add(1)
			log.Printf("reminder: send to %s failed: %v", to, err)
			return
		}
		d.sent.Add(1)
		log.Printf("reminder: sent to %s", to)
	}()
}

// Wait blocks until all in-flight sends finish or ctx expires.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the aggregate sent and failed counts since construction.
func (d *Dispatcher) Stats() (sent, failed int64) {
	return d.sent.Load(), d.failed.Load()
}
