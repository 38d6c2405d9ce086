// Package refresh runs view callbacks on a schedule or on pushed events.
// Both flavours share one interface so a view does not care which it has.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Func is one refresh. Errors are logged and never stop the refresher.
type Func func(ctx context.Context) error

type Refresher interface {
	Start(ctx context.Context)
	Stop()
}

// runner owns the goroutine lifecycle shared by Ticker and Push.
type runner struct {
	name string
	fn   Func
	log  zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *runner) start(ctx context.Context, loop func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		loop(ctx)
	}(r.done)
}

// stop cancels the loop and waits for an in-flight callback to return.
func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *runner) run(ctx context.Context) {
	if err := r.fn(ctx); err != nil && ctx.Err() == nil {
		r.log.Warn().Err(err).Str("refresh", r.name).Msg("refresh failed")
	}
}

// Ticker runs fn once on Start and then every interval until Stop.
type Ticker struct {
	runner
	interval time.Duration
}

func NewTicker(name string, interval time.Duration, fn Func, logger zerolog.Logger) *Ticker {
	return &Ticker{runner: runner{name: name, fn: fn, log: logger}, interval: interval}
}

func (t *Ticker) Start(ctx context.Context) {
	t.start(ctx, func(ctx context.Context) {
		t.run(ctx)
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				t.run(ctx)
			}
		}
	})
}

func (t *Ticker) Stop() { t.stop() }

// Push runs fn once on Start and then whenever a value arrives on the
// subscription. It stops when the subscription closes.
type Push[T any] struct {
	runner
	events <-chan T
}

func NewPush[T any](name string, events <-chan T, fn Func, logger zerolog.Logger) *Push[T] {
	return &Push[T]{runner: runner{name: name, fn: fn, log: logger}, events: events}
}

func (p *Push[T]) Start(ctx context.Context) {
	p.start(ctx, func(ctx context.Context) {
		p.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-p.events:
				if !ok {
					p.log.Debug().Str("refresh", p.name).Msg("push subscription closed")
					return
				}
				p.run(ctx)
			}
		}
	})
}

func (p *Push[T]) Stop() { p.stop() }

// Group starts and stops several refreshers together.
type Group []Refresher

func (g Group) Start(ctx context.Context) {
	for _, r := range g {
		r.Start(ctx)
	}
}

func (g Group) Stop() {
	for _, r := range g {
		r.Stop()
	}
}
