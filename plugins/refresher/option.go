package refresher

import "github.com/bft-labs/satelink/pkg/satel"

// WithRefresher returns a satel Option that enables state refreshing.
//
// Usage:
//
//	m, err := satel.New(transport, cfg,
//	    refresher.WithRefresher(refresher.Config{
//	        Interval: 10 * time.Second,
//	        States:   []satel.StateType{satel.OutputState},
//	    }),
//	)
//
// Use New and satel.WithPlugin instead to keep a handle for SetStates.
func WithRefresher(cfg Config) satel.Option {
	return satel.WithPlugin(New(cfg))
}
