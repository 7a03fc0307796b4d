// Package ports defines the interfaces (ports) that connect the protocol
// engine to infrastructure adapters.
//
// Ports are the boundaries between the engine and the outside world. They
// define what the engine needs from external systems without specifying how
// those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Transport]: Produces a byte stream to the panel (TCP or serial)
//   - [EventPublisher]: Delivers decoded domain events to subscribers
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The engine (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (net, go.bug.st/serial, zerolog).
//
// This separation enables:
//   - Testing the engine with in-memory pipes instead of hardware
//   - Swapping TCP and serial links without changing the engine
//   - Clear boundaries and dependency direction
package ports
