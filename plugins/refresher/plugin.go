// Package refresher keeps panel state snapshots current.
// Every interval it asks the panel which state kinds changed, then requests
// the snapshots of the configured states that were flagged. After each
// identification every configured state is requested once.
package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/satelink/pkg/log"
	"github.com/bft-labs/satelink/pkg/satel"
)

// DefaultInterval is the default refresh period.
const DefaultInterval = 10 * time.Second

// Config holds configuration options for the refresher plugin.
type Config struct {
	// Interval is the delay between new-states requests.
	// Default: 10 seconds
	Interval time.Duration

	// States are the state kinds to keep current.
	States []satel.StateType
}

// DefaultConfig returns a Config with sensible defaults and no states.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval}
}

// Plugin implements periodic state refreshing.
type Plugin struct {
	interval time.Duration

	mu      sync.Mutex
	states  []satel.StateType
	pending map[byte]bool
	full    bool

	panel  satel.Panel
	logger satel.Logger
	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new refresher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Plugin{
		interval: cfg.Interval,
		states:   append([]satel.StateType(nil), cfg.States...),
		pending:  make(map[byte]bool),
		full:     true,
		logger:   log.NoopLogger{},
		wake:     make(chan struct{}, 1),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "refresher"
}

// Initialize subscribes to panel events and starts the refresh loop.
func (p *Plugin) Initialize(ctx context.Context, cfg satel.PluginConfig) error {
	p.panel = cfg.Panel
	if cfg.Logger != nil {
		p.logger = cfg.Logger
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.panel.Subscribe(p)

	p.logger.Info("refresher plugin initialized",
		log.Duration("interval", p.interval),
		log.Int("states", len(p.States())),
	)

	p.wg.Add(1)
	go p.loop(runCtx)
	return nil
}

// Shutdown stops the refresh loop.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.panel != nil {
		p.panel.Unsubscribe(p)
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// SetStates replaces the refreshed states and requests all of them on the
// next pass.
func (p *Plugin) SetStates(states []satel.StateType) {
	p.mu.Lock()
	p.states = append([]satel.StateType(nil), states...)
	p.full = true
	p.mu.Unlock()
	p.signal()
}

// States returns a copy of the refreshed states.
func (p *Plugin) States() []satel.StateType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]satel.StateType(nil), p.states...)
}

// OnEvent records what needs refreshing. It runs on the communication
// goroutine, so requests are queued from the refresh loop instead.
func (p *Plugin) OnEvent(e satel.Event) {
	switch ev := e.(type) {
	case satel.IntegraVersionEvent:
		p.mu.Lock()
		p.full = true
		p.mu.Unlock()
	case satel.NewStatesEvent:
		p.mu.Lock()
		for _, st := range p.states {
			if ev.IsNew(st.Code) {
				p.pending[st.Code] = true
			}
		}
		p.mu.Unlock()
	default:
		return
	}
	p.signal()
}

func (p *Plugin) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Plugin) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.panel.IsInitialized() {
				continue
			}
			if !p.panel.SendCommand(ctx, satel.NewStatesRequest()) {
				return
			}
			p.flush(ctx)
		case <-p.wake:
			p.flush(ctx)
		}
	}
}

// flush queues the state requests collected since the last pass.
func (p *Plugin) flush(ctx context.Context) {
	if !p.panel.IsInitialized() {
		return
	}

	p.mu.Lock()
	var due []satel.StateType
	for _, st := range p.states {
		if p.full || p.pending[st.Code] {
			due = append(due, st)
		}
	}
	p.full = false
	p.pending = make(map[byte]bool)
	p.mu.Unlock()

	for _, st := range due {
		if !p.panel.SendCommand(ctx, satel.StateRequest(st)) {
			return
		}
	}
	if len(due) > 0 {
		p.logger.Debug("state refresh queued", log.Int("states", len(due)))
	}
}
