// Package events publishes domain events about users and posts.
package events

import (
	"context"
	"time"
)

// Type names a domain event.
type Type string

// Domain event types.
const (
	UserCreated Type = "user.created"
	PostCreated Type = "post.created"
)

// Event is the envelope written to the event stream.
type Event struct {
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// New builds an event stamped with the current time.
func New(eventType Type, key string, data any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// NewNoop returns a Publisher that drops events.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish discards the event.
func (Noop) Publish(ctx context.Context, event Event) error { return nil }

// Close is a no-op.
func (Noop) Close() error { return nil }
