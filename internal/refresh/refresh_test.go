package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestTickerRunsImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int32
	tk := NewTicker("orders", 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zerolog.Nop())

	tk.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	tk.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, calls.Load(), "no callbacks after Stop")
}

func TestTickerStopWaitsForInFlight(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	tk := NewTicker("slow", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	}, zerolog.Nop())

	tk.Start(context.Background())
	<-started
	tk.Stop()
	require.True(t, finished.Load())
}

func TestTickerStartStopIdempotent(t *testing.T) {
	var calls atomic.Int32
	tk := NewTicker("x", time.Hour, func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	}, zerolog.Nop())

	tk.Stop()
	tk.Start(context.Background())
	tk.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	tk.Stop()
	tk.Stop()

	tk.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond, "restartable")
	tk.Stop()
}

func TestPushRunsOnEvents(t *testing.T) {
	events := make(chan int)
	var calls atomic.Int32
	p := NewPush("orders", events, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zerolog.Nop())

	var r Refresher = p
	r.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	events <- 1
	events <- 2
	require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, time.Millisecond)

	close(events)
	r.Stop()
	require.Equal(t, int32(3), calls.Load())
}

func TestGroup(t *testing.T) {
	var a, b atomic.Int32
	g := Group{
		NewTicker("a", time.Hour, func(context.Context) error { a.Add(1); return nil }, zerolog.Nop()),
		NewTicker("b", time.Hour, func(context.Context) error { b.Add(1); return nil }, zerolog.Nop()),
	}
	g.Start(context.Background())
	require.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, time.Second, time.Millisecond)
	g.Stop()
}

func TestGuardDropsAfterClose(t *testing.T) {
	var g Guard
	applied := 0
	require.True(t, g.Apply(func() { applied++ }))
	g.Close()
	require.False(t, g.Apply(func() { applied++ }))
	require.Equal(t, 1, applied)
	require.True(t, g.Closed())
}
