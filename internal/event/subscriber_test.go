package event

import (
	"errors"
	"testing"
)

func TestSubscriber_SubscribeAndClose(t *testing.T) {
	bus := quietBus()
	s := NewSubscriber(bus)

	var calls int
	if _, err := s.SubscribeFunc(func(Event) error { calls++; return nil }); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if _, err := s.Subscribe(HandlerFunc(func(Event) error { calls++; return nil }), WithPriority(PriorityLow)); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}

	bus.Publish(NewEvent("value.updated", "1", nil, "test"))
	s.Close()
	bus.Publish(NewEvent("value.updated", "1", nil, "test"))

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if got := bus.Stats().ActiveSubscribers; got != 0 {
		t.Errorf("ActiveSubscribers = %d, want 0", got)
	}

	_, err := s.SubscribeFunc(func(Event) error { return nil })
	if !errors.Is(err, ErrSubscriberClosed) {
		t.Errorf("Subscribe after Close = %v, want ErrSubscriberClosed", err)
	}

	// Close is idempotent.
	s.Close()
}

func TestPublisher(t *testing.T) {
	bus := quietBus()
	p := NewPublisher(bus, "state")

	var got Event
	bus.SubscribeFunc(func(evt Event) error { got = evt; return nil })

	if err := p.Publish("value.updated", "1.2", 7); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got.Metadata.Source != "state" || got.Origin != "1.2" || got.Payload != 7 {
		t.Errorf("event = %+v", got)
	}
	if p.Bus() != bus || p.Source() != "state" {
		t.Error("accessors do not return construction values")
	}
}
