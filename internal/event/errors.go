package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent is returned by Publish for an event without a topic
	// or origin.
	ErrInvalidEvent = errors.New("invalid event")

	ErrInvalidPattern       = errors.New("invalid address pattern")
	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNilHandler           = errors.New("handler cannot be nil")

	// ErrHandlerPanic matches any *PanicError under errors.Is.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrSubscriberClosed is returned when subscribing through a closed
	// Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// HandlerError is reported when a handler returns an error.
type HandlerError struct {
	SubscriptionID string
	Topic          Topic
	Origin         string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler error for subscription %s on %s from %s: %v",
		e.SubscriptionID, e.Topic, e.Origin, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// PanicError is reported when a handler panics.
type PanicError struct {
	SubscriptionID string
	Topic          Topic
	Value          any
	Stack          string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on %s: %v", e.SubscriptionID, e.Topic, e.Value)
}

func (e *PanicError) Is(target error) bool { return target == ErrHandlerPanic }
