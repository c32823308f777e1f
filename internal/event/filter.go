package event

import (
	"strings"

	"github.com/dshills/rehance/internal/address"
)

// Common filter predicates for event subscription.

// FilterBySource creates a filter that only allows events from the specified source.
func FilterBySource(source string) FilterFunc {
	return func(evt Event) bool {
		return evt.Metadata.Source == source
	}
}

// FilterByTopic creates a filter that only allows events with one of the given topics.
func FilterByTopic(topics ...Topic) FilterFunc {
	set := make(map[Topic]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}
	return func(evt Event) bool {
		return set[evt.Topic]
	}
}

// FilterByTopicPrefix creates a filter for events with topics starting with prefix.
func FilterByTopicPrefix(prefix string) FilterFunc {
	return func(evt Event) bool {
		return strings.HasPrefix(string(evt.Topic), prefix)
	}
}

// FilterByOrigin creates a filter that allows events whose origin matches the pattern.
func FilterByOrigin(pattern address.Address) FilterFunc {
	return func(evt Event) bool {
		return evt.Origin.Matches(pattern)
	}
}

// FilterBySubtree allows events that originate at node or any of its
// descendants, and events from its ancestors. An ancestor change (a record
// replaced, an item dropped) can alter what the node shows, so a view bound
// to node must hear about it too.
func FilterBySubtree(node address.Address) FilterFunc {
	return func(evt Event) bool {
		return evt.Origin.HasPrefix(node) || node.HasPrefix(evt.Origin)
	}
}

// FilterAnd combines filters with AND logic.
// All filters must return true for the event to pass.
func FilterAnd(filters ...FilterFunc) FilterFunc {
	return func(evt Event) bool {
		for _, f := range filters {
			if f != nil && !f(evt) {
				return false
			}
		}
		return true
	}
}

// FilterOr combines filters with OR logic.
// At least one filter must return true for the event to pass.
func FilterOr(filters ...FilterFunc) FilterFunc {
	return func(evt Event) bool {
		for _, f := range filters {
			if f != nil && f(evt) {
				return true
			}
		}
		return false
	}
}

// FilterNot inverts a filter.
func FilterNot(filter FilterFunc) FilterFunc {
	return func(evt Event) bool {
		return !filter(evt)
	}
}

// FilterAll allows every event.
func FilterAll() FilterFunc {
	return func(Event) bool { return true }
}

// FilterNone blocks every event.
func FilterNone() FilterFunc {
	return func(Event) bool { return false }
}
