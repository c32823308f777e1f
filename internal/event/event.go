package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rehance/internal/address"
)

// Topic names the kind of change an event reports, in dot notation
// (e.g. "value.updated", "collection.appended").
type Topic string

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Event is a change notification. Events are immutable once created.
type Event struct {
	// Topic is the kind of change.
	Topic Topic

	// Origin is the address of the node whose state changed.
	Origin address.Address

	// Payload carries optional change details.
	Payload any

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string

	// CausationID links to the event whose handler published this one.
	CausationID string
}

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now

// NewEvent creates a new event.
func NewEvent(t Topic, origin address.Address, payload any, source string) Event {
	return Event{
		Topic:   t,
		Origin:  origin,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: timeNow(),
			Source:    source,
		},
	}
}

// WithCausation returns a copy of the event with a causation ID set.
func (e Event) WithCausation(causationID string) Event {
	e.Metadata.CausationID = causationID
	return e
}

// PayloadAs extracts a typed payload from an event.
func PayloadAs[T any](e Event) (T, bool) {
	p, ok := e.Payload.(T)
	return p, ok
}
