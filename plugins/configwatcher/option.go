package configwatcher

import "github.com/bft-labs/satelink/pkg/satel"

// WithConfigWatcher returns a satel Option that enables config file
// watching. reload is called after the file changes.
//
// Usage:
//
//	m, err := satel.New(transport, cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:          "/etc/satelink/config.toml",
//	        DebounceDelay: 100 * time.Millisecond,
//	    }, reload),
//	)
func WithConfigWatcher(cfg Config, reload ReloadFunc) satel.Option {
	plugin := New(cfg, reload)
	return satel.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a satel Option that watches path with
// default settings (debounce 100ms).
func WithDefaultConfigWatcher(path string, reload ReloadFunc) satel.Option {
	return WithConfigWatcher(DefaultConfig(path), reload)
}
