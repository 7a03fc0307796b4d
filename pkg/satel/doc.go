// Package satel provides an embeddable client for Satel INTEGRA alarm panels
// reached through an ETHM-1 (TCP) or INT-RS (serial) integration module.
//
// A Module owns one connection to the panel. Commands are queued and sent
// one at a time; every response is decoded by the handler registered for
// the request code and published as an [Event] to subscribed listeners.
//
// # Basic Usage
//
//	transport, err := satel.NewTCPTransport("192.168.1.10", satel.DefaultTCPPort, 0, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	module, err := satel.New(transport, satel.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	module.Subscribe(satel.ListenerFunc(func(e satel.Event) {
//	    fmt.Println(e)
//	}))
//
//	if err := module.Open(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer module.Close()
//
// # Initialization
//
// Opening a module queues an identification request. Until the panel
// answers, [Module.IsInitialized] is false and [Module.Control] returns
// [ErrNotInitialized], since control payloads are sized by the panel
// variant. Every reconnect starts a new session and identifies again.
//
// # Connection Handling
//
// Each read and write is bounded by [Config.Timeout]. When it is exceeded,
// or the link fails, the connection is closed, pending commands are
// dropped and the module reconnects in the background. Use
// [WithStateHandler] to observe [State] changes.
//
// # Plugins
//
// Optional behavior is added with plugins:
//
//	import "github.com/bft-labs/satelink/plugins/refresher"
//
//	module, err := satel.New(transport, cfg,
//	    refresher.WithRefresher(refresher.DefaultConfig()),
//	)
//
// Plugins are initialized in registration order by [Module.Open] and shut
// down in reverse order by [Module.Close].
package satel
