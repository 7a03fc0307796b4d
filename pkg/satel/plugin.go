package satel

import (
	"context"
)

// Plugin extends a Module with optional behavior.
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize is called from Module.Open before the connection starts.
	// A returned error aborts Open.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called from Module.Close after the connection stops.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to plugins on initialization.
type PluginConfig struct {
	// Panel is the opened module.
	Panel Panel
	// Logger is the module logger.
	Logger Logger
}

// Panel is the part of Module that plugins use.
type Panel interface {
	SendCommand(ctx context.Context, m Message) bool
	IsInitialized() bool
	IntegraType() IntegraType
	Subscribe(l Listener)
	Unsubscribe(l Listener)
}

var _ Panel = (*Module)(nil)
