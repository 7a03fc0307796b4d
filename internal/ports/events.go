package ports

import "github.com/bft-labs/satelink/internal/domain"

// EventPublisher delivers domain events to subscribers.
// Command handlers hold only this interface.
type EventPublisher interface {
	Publish(e domain.Event)
}
