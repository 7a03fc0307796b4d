// Package domain contains the core protocol entities and value objects for
// talking to an INTEGRA panel.
//
// This package is the innermost layer. It has no dependencies on transport,
// logging, or configuration and contains only the protocol vocabulary.
//
// # Entities
//
//   - [Message]: a command code plus payload, independent of wire encoding
//   - [Bits]: a little-endian bit set used by state snapshots
//   - [IntegraType]: the hardware variant reported by the panel
//   - [StateType] and [ControlType]: the refresh and control command tables
//   - [Event] and its variants: values published by command handlers
//
// # Design Principles
//
// Domain values are:
//   - Immutable after construction (payloads are copied in and out)
//   - Free of infrastructure dependencies
//   - Comparable by content where the protocol needs it (queue coalescing)
package domain
