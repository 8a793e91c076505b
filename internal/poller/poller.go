package poller

import (
	"context"
	"sync"
	"time"

	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/platform/resilience"
)

const (
	StateStopped = "STOPPED"
	StateRunning = "RUNNING"

	defaultInterval = 30 * time.Second
	cycleKey        = "poller-cycle"
)

// CycleFunc runs one sync cycle.
type CycleFunc func(ctx context.Context) error

// Status describes the recent health of the polling loop.
type Status struct {
	State               string
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// Poller invokes a cycle function immediately on start and then on a fixed
// interval. A cycle still in flight when the ticker fires again is never
// overlapped; that tick is skipped instead.
type Poller struct {
	cycle    CycleFunc
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time
	flight   resilience.SingleFlight

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

func New(cycle CycleFunc, interval time.Duration, logger *logging.Logger) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller{
		cycle:    cycle,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
		status:   Status{State: StateStopped},
	}
}

// Start launches the polling loop. Calling Start on a running or stopped
// poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.setState(StateRunning)

	go func() {
		p.logger.Info("poller started", "interval_ms", p.interval.Milliseconds())
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.runCycle(ctx)

		for {
			select {
			case <-ctx.Done():
				p.setState(StateStopped)
				p.logger.Info("poller stopped")
				return
			case <-p.done:
				p.setState(StateStopped)
				p.logger.Info("poller stopped")
				return
			case <-ticker.C:
				p.runCycle(ctx)
			}
		}
	}()
}

// Stop halts the loop. Safe to call repeatedly and before Start.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
}

func (p *Poller) runCycle(ctx context.Context) {
	started, err := p.tryCycle(ctx)
	if !started {
		p.logger.Warn("poller cycle still in flight, skipping tick")
		return
	}

	at := p.now()
	if err != nil {
		p.recordFailure(err, at)
		p.logger.Error("poller cycle failed", "error", err)
		return
	}
	p.recordSuccess(at)
}

func (p *Poller) tryCycle(ctx context.Context) (bool, error) {
	_, err, started := p.flight.TryDo(cycleKey, func() (any, error) {
		return nil, p.cycle(ctx)
	})
	if !started {
		return false, nil
	}
	return true, err
}

func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// IsReady reports whether the loop has completed a cycle recently enough to
// serve as a health signal.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

func (p *Poller) setState(state string) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.State = state
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastAttempt = at
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	p.status.LastError = err.Error()
	p.status.LastAttempt = at
}
