package shared

import "context"

// EventHandler reacts to domain events after the change that raised them
// has been stored
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants. Empty means all.
	EventTypes() []string
}

// EventPublisher is what services depend on. Publishing never fails the
// operation that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide publisher with its subscription and
// lifecycle methods
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
