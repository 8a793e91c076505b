package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wizix/pickem-pool/internal/platform/logging"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPoller_RunsImmediatelyThenOnInterval(t *testing.T) {
	t.Parallel()

	var cycles atomic.Int64
	p := New(func(context.Context) error {
		cycles.Add(1)
		return nil
	}, 20*time.Millisecond, logging.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, time.Second, func() bool { return cycles.Load() >= 1 })
	first := cycles.Load()
	waitFor(t, time.Second, func() bool { return cycles.Load() > first })
}

func TestPoller_StateTransitions(t *testing.T) {
	t.Parallel()

	p := New(func(context.Context) error { return nil }, 50*time.Millisecond, logging.NewNop())
	if got := p.Status().State; got != StateStopped {
		t.Fatalf("expected STOPPED before start, got %s", got)
	}

	p.Start(context.Background())
	waitFor(t, time.Second, func() bool { return p.Status().State == StateRunning })

	p.Stop()
	waitFor(t, time.Second, func() bool { return p.Status().State == StateStopped })
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	p := New(func(context.Context) error { return nil }, 50*time.Millisecond, logging.NewNop())
	p.Start(context.Background())

	p.Stop()
	p.Stop()
	p.Stop()

	waitFor(t, time.Second, func() bool { return p.Status().State == StateStopped })
}

func TestPoller_SkipsOverlappingCycles(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	var entered atomic.Int64
	p := New(func(context.Context) error {
		entered.Add(1)
		<-block
		return nil
	}, 10*time.Millisecond, logging.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, time.Second, func() bool { return entered.Load() == 1 })

	// Several ticks elapse while the first cycle is blocked; none may start
	// a second cycle.
	time.Sleep(60 * time.Millisecond)
	if got := entered.Load(); got != 1 {
		t.Fatalf("expected a single in-flight cycle, got %d", got)
	}
	close(block)

	waitFor(t, time.Second, func() bool { return entered.Load() >= 2 })
}

func TestPoller_TracksFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	p := New(func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("provider down")
		}
		return nil
	}, 15*time.Millisecond, logging.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, time.Second, func() bool {
		s := p.Status()
		return s.LastError != "" || !s.LastSuccess.IsZero()
	})
	waitFor(t, time.Second, func() bool {
		s := p.Status()
		return s.ConsecutiveFailures == 0 && !s.LastSuccess.IsZero()
	})
	if !p.Status().IsReady() {
		t.Fatal("poller must report ready after a successful cycle")
	}
}

func TestPoller_ContextCancelStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := New(func(context.Context) error { return nil }, 20*time.Millisecond, logging.NewNop())
	p.Start(ctx)

	cancel()
	waitFor(t, time.Second, func() bool { return p.Status().State == StateStopped })
}
