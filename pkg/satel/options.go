package satel

import (
	"github.com/bft-labs/satelink/internal/app"
	"github.com/bft-labs/satelink/pkg/log"
)

// Option configures optional behavior of a Module.
type Option func(*options)

// StateHandler is called on every connection state change, synchronously
// from the communication goroutine.
type StateHandler func(previous, current State, reason string)

// RegistryHook registers extra response handlers. pub publishes to the
// module's listeners.
type RegistryHook func(r *Registry, pub Publisher)

// options holds the optional configuration for a Module.
type options struct {
	logger       Logger
	stateHandler StateHandler
	plugins      []Plugin
	registry     []RegistryHook
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NoopLogger{},
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStateHandler sets a handler for connection state changes.
// Handlers must return quickly: they run on the communication goroutine.
func WithStateHandler(h StateHandler) Option {
	return func(o *options) {
		o.stateHandler = h
	}
}

// WithPlugin registers a plugin to be initialized when the module opens.
// Plugins are initialized in registration order and shut down in reverse
// order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithRegistry runs hook once the default handlers are registered, so
// callers can add or replace handlers.
func WithRegistry(hook RegistryHook) Option {
	return func(o *options) {
		o.registry = append(o.registry, hook)
	}
}

// stateEmitter adapts StateHandler to the engine's emitter interface.
type stateEmitter struct {
	handler StateHandler
}

func (e stateEmitter) OnStateChange(previous, current app.State, reason string) {
	if e.handler != nil {
		e.handler(previous, current, reason)
	}
}
