package event

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/rehance/internal/address"
	"github.com/dshills/rehance/internal/event/dispatch"
)

// Bus delivers change notifications from the nodes of one state trie to the
// subscribers that registered interest in them.
//
// Delivery is synchronous. Events published by a handler while the bus is
// delivering are queued and fanned out after the current event, in
// publication order.
type Bus struct {
	registry *Registry
	tally    dispatch.Tally
	config   busConfig

	mu       sync.Mutex
	queue    []Event
	draining bool
	current  string

	eventsPublished    atomic.Uint64
	reentrantPublishes atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Bus{
		registry: NewRegistry(),
		config:   config,
	}
}

// Logger returns the bus logger.
func (b *Bus) Logger() *slog.Logger {
	return b.config.logger
}

// Publish delivers evt to every active subscription whose pattern matches
// its origin. Handler faults are never returned; the only error is
// ErrInvalidEvent for an event without a topic or origin.
func (b *Bus) Publish(evt Event) error {
	if evt.Topic == "" || evt.Origin == "" {
		return ErrInvalidEvent
	}
	if evt.Metadata.ID == "" {
		evt.Metadata.ID = uuid.NewString()
	}
	if evt.Metadata.Timestamp.IsZero() {
		evt.Metadata.Timestamp = timeNow()
	}
	if evt.Metadata.Source == "" {
		evt.Metadata.Source = b.config.source
	}

	b.eventsPublished.Add(1)

	b.mu.Lock()
	if b.draining {
		if evt.Metadata.CausationID == "" {
			evt = evt.WithCausation(b.current)
		}
		b.queue = append(b.queue, evt)
		b.mu.Unlock()
		b.reentrantPublishes.Add(1)
		return nil
	}
	b.queue = append(b.queue, evt)
	b.draining = true
	b.mu.Unlock()

	b.drain()
	return nil
}

// drain delivers queued events until the queue is empty.
func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.current = ""
			b.mu.Unlock()
			return
		}
		evt := b.queue[0]
		b.queue[0] = Event{}
		b.queue = b.queue[1:]
		b.current = evt.Metadata.ID
		b.mu.Unlock()

		b.fanOut(evt)
	}
}

// fanOut delivers one event to its matching subscriptions in order.
func (b *Bus) fanOut(evt Event) {
	for _, sub := range b.registry.Match(evt.Origin) {
		if sub.IsCancelled() {
			b.registry.Remove(sub.ID())
			continue
		}
		if !b.shouldDeliver(sub, evt) {
			continue
		}

		res := dispatch.Run(evt, sub.Handler().Handle)
		b.tally.Record(res)

		switch res.Outcome {
		case dispatch.Panicked:
			err := &PanicError{
				SubscriptionID: sub.ID(),
				Topic:          evt.Topic,
				Value:          res.PanicValue,
				Stack:          string(res.Stack),
			}
			b.config.logger.Error("event handler panicked",
				"subscription", sub.ID(),
				"topic", evt.Topic.String(),
				"origin", evt.Origin.String(),
				"panic", res.PanicValue,
				"stack", err.Stack)
			sub.reportError(err)
		case dispatch.Failed:
			err := &HandlerError{
				SubscriptionID: sub.ID(),
				Topic:          evt.Topic,
				Origin:         evt.Origin.String(),
				Err:            res.Err,
			}
			b.config.logger.Warn("event handler failed",
				"subscription", sub.ID(),
				"topic", evt.Topic.String(),
				"origin", evt.Origin.String(),
				"error", res.Err)
			sub.reportError(err)
		default:
			if sub.Config().Once {
				sub.Unsubscribe()
			}
		}
	}
}

// shouldDeliver evaluates the subscription state and filter. A panicking
// filter counts as a rejection.
func (b *Bus) shouldDeliver(sub *subscription, evt Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.config.logger.Warn("event filter panicked",
				"subscription", sub.ID(),
				"topic", evt.Topic.String(),
				"panic", r)
			ok = false
		}
	}()
	return sub.ShouldDeliver(evt)
}

// Subscribe registers a handler. By default the subscription receives events
// from every origin; use WithPattern to narrow it.
func (b *Bus) Subscribe(handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(uuid.NewString(), handler, opts...)
	if !sub.Pattern().IsValid() {
		return nil, ErrInvalidPattern
	}
	sub.detach = b.registry.Remove
	b.registry.Add(sub)

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	if _, ok := b.registry.Get(sub.ID()); !ok {
		return ErrSubscriptionNotFound
	}
	sub.Unsubscribe()
	return nil
}

// Clear cancels and removes every subscription.
func (b *Bus) Clear() {
	b.registry.Clear()
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	counts := b.tally.Counts()
	return Stats{
		EventsPublished:    b.eventsPublished.Load(),
		EventsDelivered:    counts.Delivered,
		HandlersExecuted:   counts.Executed,
		HandlerErrors:      counts.Failed,
		HandlerPanics:      counts.Panicked,
		ReentrantPublishes: b.reentrantPublishes.Load(),
		ActiveSubscribers:  b.registry.CountActive(),
	}
}

// Subscriptions returns the number of registered subscriptions matching origin.
func (b *Bus) Subscriptions(origin address.Address) int {
	return len(b.registry.MatchActive(origin))
}
