// Package configwatcher provides config file monitoring for satelink.
// When enabled, it watches one configuration file and calls a reload
// function after the file changes.
package configwatcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/satelink/pkg/log"
	"github.com/bft-labs/satelink/pkg/satel"
)

// ReloadFunc applies the configuration at path.
type ReloadFunc func(ctx context.Context, path string) error

// Plugin implements config watching functionality.
// It watches the directory holding the file, so replacing the file (as most
// editors do) is noticed as well as writing it in place.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	path          string
	debounceDelay time.Duration
	reload        ReloadFunc

	// Runtime state
	logger   satel.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	reloads  int
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the watched file.
	Path string

	// DebounceDelay is the delay to wait after a file change before
	// reloading. Further changes within the delay restart it.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin calling reload on changes.
func New(cfg Config, reload ReloadFunc) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		reload:        reload,
		logger:        log.NoopLogger{},
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching the file.
func (p *Plugin) Initialize(ctx context.Context, cfg satel.PluginConfig) error {
	if cfg.Logger != nil {
		p.logger = cfg.Logger
	}

	if p.path == "" || p.reload == nil {
		p.logger.Warn("config watcher disabled: no file or reload function configured")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher plugin initialized", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Reloads returns how many reloads succeeded.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

// watchLoop watches for config file changes.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		p.doReload(ctx)
	})
}

func (p *Plugin) doReload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.reload(ctx, p.path); err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Error("config reload failed",
				log.String("path", p.path),
				log.Err(err))
		}
		return
	}

	p.mu.Lock()
	p.reloads++
	p.mu.Unlock()
	p.logger.Info("configuration reloaded", log.String("path", p.path))
}

// Ensure Plugin implements satel.Plugin.
var _ satel.Plugin = (*Plugin)(nil)
