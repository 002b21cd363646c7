// Package pubsub provides a small generic publish/subscribe broker.
// It fans out log entries, deck reloads and fold updates to interested
// listeners, most notably the terminal fold browser.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event carries a typed payload together with its classification and
// the time it was published.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
