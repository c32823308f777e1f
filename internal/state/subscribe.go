package state

import (
	"slices"

	"github.com/dshills/rehance/internal/event"
)

// SubscribeSubtree subscribes h to events published by n, its descendants
// and its ancestors. Ancestor events matter to views of n because a
// structural change above n may move or remove it. A filter passed in opts
// is combined with the subtree check.
func SubscribeSubtree(n Node, h event.Handler, opts ...event.SubscriptionOption) (event.Subscription, error) {
	cfg := event.DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	filter := event.FilterAnd(event.FilterBySubtree(n.ID()), cfg.Filter)
	return n.Events().Subscribe(h, slices.Concat(opts, []event.SubscriptionOption{event.WithFilter(filter)})...)
}
