// Package event provides the change-notification bus shared by every node of
// a state trie.
//
// Nodes publish an Event after each mutation. The bus fans the event out
// synchronously, in subscription order, to every active subscription whose
// address pattern matches the event's origin and whose filter accepts it.
// Publishing is the only way state changes become visible outside the trie;
// reading node values never publishes.
//
// # Addressing
//
// Every event carries the address of the node that originated it. Subscriptions
// select origins with address patterns:
//
//	**                 every node in the trie (the default)
//	<root>.<field>.**  one field and everything beneath it
//	<root>.*           direct children of the root
//
// # Ordering
//
// Handlers run in the publisher's goroutine. Subscriptions with the same
// priority run in the order they were registered. A handler that publishes
// while a fan-out is in progress does not interleave with it: the new event is
// queued and delivered as a separate fan-out once the current one completes.
//
// # Fault Isolation
//
// A handler that returns an error or panics does not stop delivery to the
// remaining handlers. The fault is reported to the subscription's own error
// hook (WithErrorHandler), logged through the bus logger and counted in
// Stats. It is never returned to the publisher.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	sub, err := bus.SubscribeFunc(func(evt event.Event) error {
//	    fmt.Println(evt.Topic, evt.Origin)
//	    return nil
//	}, event.WithPattern(field.ID().Subtree()))
//	defer sub.Unsubscribe()
//
//	bus.Publish(event.NewEvent("value.updated", origin, nil, "state"))
//
// # Subpackages
//
//   - dispatch: handler execution with panic recovery and timing
package event
