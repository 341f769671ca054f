package port

import (
	"context"

	"github.com/bnema/lectern/internal/domain/event"
)

// EventHandler receives an event delivered by the bus.
// Handlers run on the bus delivery goroutine and must not block.
type EventHandler func(env event.Envelope)

// Subscription is a live registration on the bus.
type Subscription interface {
	// Unsubscribe stops delivery. Safe to call more than once.
	Unsubscribe()
}

// EventBus is the asynchronous channel windows communicate through.
// Events from a single publisher are delivered in publish order; no
// ordering holds across publishers. Delivery is best-effort.
type EventBus interface {
	// Publish emits an event to every subscriber of its kind,
	// including subscribers in the publishing window.
	Publish(ctx context.Context, env event.Envelope) error

	// Subscribe registers handler for events of the given kind.
	Subscribe(name event.Name, handler EventHandler) (Subscription, error)
}
