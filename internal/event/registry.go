package event

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"github.com/dshills/rehance/internal/address"
)

// Registry indexes subscriptions by origin pattern and by ID. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	subs    map[address.Address][]*subscription
	byID    map[string]*subscription
	matcher *address.Matcher
	nextSeq uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:    make(map[address.Address][]*subscription),
		byID:    make(map[string]*subscription),
		matcher: address.NewMatcher(),
	}
}

// deliveryOrder sorts by priority, then by registration.
func deliveryOrder(a, b *subscription) int {
	if c := cmp.Compare(a.config.Priority, b.config.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Add adds a subscription for its origin pattern and stamps its registration order.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	sub.seq = r.nextSeq

	pattern := sub.Pattern()
	subs := append(r.subs[pattern], sub)
	slices.SortStableFunc(subs, deliveryOrder)
	r.subs[pattern] = subs

	r.byID[sub.ID()] = sub
	r.matcher.Add(pattern)
}

// Remove removes a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(subID)
}

func (r *Registry) removeLocked(subID string) bool {
	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	pattern := sub.Pattern()
	r.subs[pattern] = slices.DeleteFunc(r.subs[pattern], func(s *subscription) bool {
		return s.ID() == subID
	})
	if len(r.subs[pattern]) == 0 {
		delete(r.subs, pattern)
		r.matcher.Remove(pattern)
	}

	delete(r.byID, subID)
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (*subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.byID[subID]
	return sub, exists
}

// Match returns all subscriptions whose pattern matches the origin, in
// delivery order. The returned slice is a snapshot; later registrations do
// not affect it.
func (r *Registry) Match(origin address.Address) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := r.matcher.Match(origin)
	if len(patterns) == 0 {
		return nil
	}

	var matched []*subscription
	for _, pattern := range patterns {
		matched = append(matched, r.subs[pattern]...)
	}
	if len(matched) == 0 {
		return nil
	}
	slices.SortFunc(matched, deliveryOrder)
	return matched
}

// MatchActive returns all active subscriptions that match the origin.
// This filters out paused and cancelled subscriptions.
func (r *Registry) MatchActive(origin address.Address) []*subscription {
	return slices.DeleteFunc(r.Match(origin), func(s *subscription) bool {
		return !s.IsActive()
	})
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// CountByPattern returns the number of subscriptions for a specific pattern.
func (r *Registry) CountByPattern(pattern address.Address) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs[pattern])
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			count++
		}
	}
	return count
}

// Patterns returns all patterns with at least one subscription.
func (r *Registry) Patterns() []address.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.subs) == 0 {
		return nil
	}
	return slices.Collect(maps.Keys(r.subs))
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.Cancel()
	}
	clear(r.subs)
	clear(r.byID)
	r.matcher.Clear()
}

// RemoveCancelled removes all cancelled subscriptions from the registry.
// Returns the number of subscriptions removed.
func (r *Registry) RemoveCancelled() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sub := range r.byID {
		if sub.IsCancelled() && r.removeLocked(id) {
			removed++
		}
	}
	return removed
}
