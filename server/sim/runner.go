package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc receives the snapshot and events of every tick. It runs on the
// loop goroutine and must not call Start or Stop on the same Runner.
type TickFunc func(snap Snapshot, events []Event)

// Runner drives one match at a time at a fixed rate. Starting a new match
// cancels the previous loop and waits for it to exit, so two loops never
// tick concurrently.
type Runner struct {
	Interval time.Duration // zero means TickDuration

	mu     sync.Mutex
	gen    atomic.Uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Start cancels any running loop and begins ticking m. It returns the
// generation number of the new loop.
func (r *Runner) Start(ctx context.Context, m *Match, in InputSource, fn TickFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	gen := r.gen.Add(1)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.loop(ctx, gen, m, in, fn, done)
	return gen
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Generation is the number of the most recently started loop.
func (r *Runner) Generation() uint64 {
	return r.gen.Load()
}

// Done is closed when the current loop exits, either because the match
// ended or because it was stopped. It is nil before the first Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.gen.Add(1)
	r.cancel()
	<-r.done
	r.cancel = nil
}

func (r *Runner) loop(ctx context.Context, gen uint64, m *Match, in InputSource, fn TickFunc, done chan struct{}) {
	defer close(done)

	interval := r.Interval
	if interval <= 0 {
		interval = TickDuration
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stale loop must never touch its match again.
			if r.gen.Load() != gen {
				return
			}
			events := m.Tick(in.Input())
			if fn != nil {
				fn(m.Snapshot(), events)
			}
			if m.State().Terminal() {
				return
			}
		}
	}
}
