package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bft-labs/satelink/internal/ports"
)

// DefaultWatchdogInterval is the watchdog tick period.
const DefaultWatchdogInterval = 200 * time.Millisecond

// Watchdog bounds blocking reads and writes. The engine marks the start of
// each I/O attempt with Start and its end with Stop; when an attempt stays
// open longer than the timeout the watchdog calls interrupt once.
type Watchdog struct {
	timeout   time.Duration
	interval  time.Duration
	interrupt func()
	logger    ports.Logger

	// lastActivity is a UnixNano timestamp, zero while idle.
	lastActivity atomic.Int64
	timeouts     atomic.Int64
	now          func() time.Time
}

// NewWatchdog creates a watchdog. An interval of zero means
// DefaultWatchdogInterval.
func NewWatchdog(timeout, interval time.Duration, interrupt func(), logger ports.Logger) *Watchdog {
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	return &Watchdog{
		timeout:   timeout,
		interval:  interval,
		interrupt: interrupt,
		logger:    logger,
		now:       time.Now,
	}
}

// Start marks the beginning of an I/O attempt, restarting the timer.
func (w *Watchdog) Start() {
	w.lastActivity.Store(w.now().UnixNano())
}

// Stop marks the attempt as finished.
func (w *Watchdog) Stop() {
	w.lastActivity.Store(0)
}

// Active reports whether an attempt is being timed.
func (w *Watchdog) Active() bool {
	return w.lastActivity.Load() != 0
}

// Timeouts returns how many times the watchdog fired.
func (w *Watchdog) Timeouts() int64 {
	return w.timeouts.Load()
}

// Run ticks until ctx is done.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check fires the interrupt if the current attempt is overdue. It reports
// whether it fired.
func (w *Watchdog) check() bool {
	started := w.lastActivity.Load()
	if started == 0 {
		return false
	}
	elapsed := w.now().Sub(time.Unix(0, started))
	if elapsed <= w.timeout {
		return false
	}
	// Another Start or Stop won the race; that attempt is not overdue.
	if !w.lastActivity.CompareAndSwap(started, 0) {
		return false
	}

	w.timeouts.Add(1)
	w.logger.Warn("send/receive timeout, interrupting connection",
		ports.Duration("elapsed", elapsed),
		ports.Duration("timeout", w.timeout),
	)
	if w.interrupt != nil {
		w.interrupt()
	}
	return true
}
