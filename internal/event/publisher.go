package event

import "github.com/dshills/rehance/internal/address"

// Publisher stamps a fixed source on the events it publishes.
// State nodes publish through one Publisher per tree.
type Publisher struct {
	bus    *Bus
	source string
}

// NewPublisher creates a new Publisher wrapping the given bus.
func NewPublisher(bus *Bus, source string) *Publisher {
	return &Publisher{
		bus:    bus,
		source: source,
	}
}

// Publish creates and publishes an event from origin.
func (p *Publisher) Publish(t Topic, origin address.Address, payload any) error {
	return p.bus.Publish(NewEvent(t, origin, payload, p.source))
}

// Source returns the publisher's source identifier.
func (p *Publisher) Source() string {
	return p.source
}

// Bus returns the underlying bus.
func (p *Publisher) Bus() *Bus {
	return p.bus
}
