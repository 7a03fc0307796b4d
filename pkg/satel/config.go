package satel

import (
	"fmt"
	"time"

	"github.com/bft-labs/satelink/internal/app"
	"github.com/bft-labs/satelink/internal/queue"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultTimeout          = app.DefaultTimeout
	DefaultWatchdogInterval = app.DefaultWatchdogInterval
	DefaultQueueCapacity    = queue.DefaultCapacity
)

// Config holds the communication settings of a Module.
type Config struct {
	// Timeout bounds each write and each read on the panel link. A read
	// or write taking longer is aborted and the connection is reopened.
	Timeout time.Duration

	// Checksum enables the 16-bit frame checksum. INTEGRA modules require
	// it; leave it off only for links that strip it.
	Checksum bool

	// WatchdogInterval is how often the I/O watchdog checks the timeout.
	WatchdogInterval time.Duration

	// QueueCapacity bounds the number of pending commands.
	QueueCapacity int
}

// DefaultConfig returns a Config with default values and checksums enabled.
func DefaultConfig() Config {
	return Config{
		Timeout:          DefaultTimeout,
		Checksum:         true,
		WatchdogInterval: DefaultWatchdogInterval,
		QueueCapacity:    DefaultQueueCapacity,
	}
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.WatchdogInterval == 0 {
		c.WatchdogInterval = DefaultWatchdogInterval
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.WatchdogInterval <= 0 {
		return fmt.Errorf("%w: watchdog interval must be positive", ErrInvalidConfig)
	}
	if c.WatchdogInterval > c.Timeout {
		return fmt.Errorf("%w: watchdog interval %v exceeds timeout %v", ErrInvalidConfig, c.WatchdogInterval, c.Timeout)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("%w: queue capacity must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c Config) engineConfig() app.EngineConfig {
	return app.EngineConfig{
		Timeout:          c.Timeout,
		WatchdogInterval: c.WatchdogInterval,
		Checksum:         c.Checksum,
		QueueCapacity:    c.QueueCapacity,
	}
}
