package satel

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/satelink/internal/app"
	"github.com/bft-labs/satelink/internal/command"
	"github.com/bft-labs/satelink/internal/event"
	"github.com/bft-labs/satelink/internal/ports"
)

// Module talks to one INTEGRA panel through an ETHM-1 or INT-RS module.
// Use New() to create an instance, then Open() to start communicating.
type Module struct {
	config     Config
	opts       options
	transport  Transport
	dispatcher *event.Dispatcher
	registry   *command.Registry
	engine     *app.Engine
	logger     ports.Logger

	mu     sync.Mutex
	open   bool
	cancel context.CancelFunc
}

// New creates a module communicating over transport.
// Zero config fields take defaults. The module is closed; call Open to
// connect.
func New(transport Transport, cfg Config, opts ...Option) (*Module, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidConfig)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	dispatcher := event.NewDispatcher()
	registry := command.NewDefaultRegistry(dispatcher, logger)
	for _, hook := range o.registry {
		hook(registry, dispatcher)
	}

	engine := app.NewEngine(cfg.engineConfig(), transport, registry, logger,
		stateEmitter{handler: o.stateHandler})
	// The engine learns the panel variant from its own identification
	// responses, ahead of user listeners.
	dispatcher.Subscribe(engine)

	return &Module{
		config:     cfg,
		opts:       o,
		transport:  transport,
		dispatcher: dispatcher,
		registry:   registry,
		engine:     engine,
		logger:     logger,
	}, nil
}

// Open initializes plugins and starts the communication goroutine.
// Returns immediately; the first connection attempt happens in the
// background. Returns ErrAlreadyOpen if the module is open.
func (m *Module) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		return ErrAlreadyOpen
	}

	runCtx, cancel := context.WithCancel(ctx)

	pluginCfg := PluginConfig{Panel: m, Logger: m.logger}
	for i, p := range m.opts.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			m.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			m.shutdownPlugins(i - 1)
			cancel()
			return err
		}
		m.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	if err := m.engine.Start(runCtx); err != nil {
		m.shutdownPlugins(len(m.opts.plugins) - 1)
		cancel()
		return err
	}

	m.open = true
	m.cancel = cancel
	m.logger.Info("module opened", ports.String("transport", m.transport.String()))
	return nil
}

// Close stops communication, closes the connection and shuts plugins down
// in reverse order. Pending commands are dropped.
// Returns ErrNotOpen if the module is not open, ErrShutdownTimeout if the
// communication goroutine did not exit in time.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrNotOpen
	}
	m.open = false

	err := m.engine.Stop()
	m.cancel()
	m.cancel = nil

	m.shutdownPlugins(len(m.opts.plugins) - 1)
	m.logger.Info("module closed")
	return err
}

// shutdownPlugins shuts down plugins[0..last] in reverse order.
func (m *Module) shutdownPlugins(last int) {
	ctx := context.Background()
	for i := last; i >= 0; i-- {
		p := m.opts.plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			m.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			m.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// SendCommand queues a command for the panel. Queuing a command equal to
// one already pending is a no-op that reports success. When the queue is
// full it blocks until there is room, returning false if ctx ends first.
func (m *Module) SendCommand(ctx context.Context, msg Message) bool {
	return m.engine.Send(ctx, msg)
}

// Control queues a control command over the given objects, authorized by
// userCode. The object bits are sized for the identified panel, so the
// module must be initialized.
func (m *Module) Control(ctx context.Context, ct ControlType, userCode string, objects Bits) error {
	it := m.engine.IntegraType()
	if it == IntegraUnknown {
		return ErrNotInitialized
	}
	msg, err := command.ControlRequest(ct, userCode, objects, it)
	if err != nil {
		return err
	}
	if !m.engine.Send(ctx, msg) {
		return ctx.Err()
	}
	return nil
}

// RequestState queues a snapshot request for st.
func (m *Module) RequestState(ctx context.Context, st StateType) bool {
	return m.engine.Send(ctx, command.StateRequest(st))
}

// Subscribe registers l for every event the module publishes. Listeners
// run on the communication goroutine and must return quickly.
func (m *Module) Subscribe(l Listener) {
	m.dispatcher.Subscribe(l)
}

// Unsubscribe removes one registration of l.
func (m *Module) Unsubscribe(l Listener) {
	m.dispatcher.Unsubscribe(l)
}

// IsOpen reports whether Open succeeded without a matching Close.
func (m *Module) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// IsConnected reports whether a connection to the panel is open.
func (m *Module) IsConnected() bool {
	return m.engine.IsConnected()
}

// IsInitialized reports whether the panel has identified itself on the
// current connection.
func (m *Module) IsInitialized() bool {
	return m.engine.IsInitialized()
}

// IntegraType returns the identified panel variant, IntegraUnknown until
// the module is initialized.
func (m *Module) IntegraType() IntegraType {
	return m.engine.IntegraType()
}

// IntegraVersion returns the panel firmware version, empty until known.
func (m *Module) IntegraVersion() string {
	return m.engine.IntegraVersion()
}

// State returns the current connection state.
func (m *Module) State() State {
	return m.engine.State()
}

// PendingCommands returns a copy of the queued commands, head first.
func (m *Module) PendingCommands() []Message {
	return m.engine.Pending()
}

// Timeouts returns how many reads or writes were aborted for exceeding the
// configured timeout.
func (m *Module) Timeouts() int64 {
	return m.engine.Timeouts()
}

// Config returns the effective configuration.
func (m *Module) Config() Config {
	return m.config
}
