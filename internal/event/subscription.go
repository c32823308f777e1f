package event

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/rehance/internal/address"
)

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	SubscriptionStateActive SubscriptionState = iota
	SubscriptionStatePaused
	SubscriptionStateCancelled
)

var subscriptionStateNames = [...]string{
	SubscriptionStateActive:    "active",
	SubscriptionStatePaused:    "paused",
	SubscriptionStateCancelled: "cancelled",
}

func (s SubscriptionState) String() string {
	if s < 0 || int(s) >= len(subscriptionStateNames) {
		return "unknown"
	}
	return subscriptionStateNames[s]
}

// Subscription is a handle on a registered handler. A paused subscription
// skips events until resumed; a cancelled one never receives events again.
type Subscription interface {
	ID() string

	// Pattern is the origin address pattern events must match.
	Pattern() address.Address

	State() SubscriptionState
	IsActive() bool
	IsPaused() bool

	Pause()
	Resume()

	// Cancel stops delivery. The bus forgets the subscription on its next
	// fan-out.
	Cancel()

	// Unsubscribe cancels the subscription and detaches it from the bus
	// right away. Repeated calls are no-ops.
	Unsubscribe()
}

type subscription struct {
	id      string
	seq     uint64
	handler Handler
	config  SubscriptionConfig
	status  atomic.Int32

	detach     func(id string) bool
	detachOnce sync.Once
}

func newSubscription(id string, h Handler, opts ...SubscriptionOption) *subscription {
	cfg := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Pattern == "" {
		cfg.Pattern = address.All
	}

	s := &subscription{id: id, handler: h, config: cfg}
	s.status.Store(int32(SubscriptionStateActive))
	return s
}

func (s *subscription) ID() string               { return s.id }
func (s *subscription) Pattern() address.Address { return s.config.Pattern }
func (s *subscription) Handler() Handler         { return s.handler }
func (s *subscription) Config() SubscriptionConfig {
	return s.config
}

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.status.Load())
}

func (s *subscription) IsActive() bool    { return s.State() == SubscriptionStateActive }
func (s *subscription) IsPaused() bool    { return s.State() == SubscriptionStatePaused }
func (s *subscription) IsCancelled() bool { return s.State() == SubscriptionStateCancelled }

// transition moves from one state to another and reports whether it did.
func (s *subscription) transition(from, to SubscriptionState) bool {
	return s.status.CompareAndSwap(int32(from), int32(to))
}

func (s *subscription) Pause()  { s.transition(SubscriptionStateActive, SubscriptionStatePaused) }
func (s *subscription) Resume() { s.transition(SubscriptionStatePaused, SubscriptionStateActive) }

func (s *subscription) Cancel() {
	s.status.Store(int32(SubscriptionStateCancelled))
}

func (s *subscription) Unsubscribe() {
	s.Cancel()
	s.detachOnce.Do(func() {
		if s.detach != nil {
			s.detach(s.id)
		}
	})
}

// ShouldDeliver reports whether evt passes the state and filter checks.
func (s *subscription) ShouldDeliver(evt Event) bool {
	return s.IsActive() && (s.config.Filter == nil || s.config.Filter(evt))
}

// reportError hands a handler fault to the OnError hook. A panicking hook
// is swallowed.
func (s *subscription) reportError(err error) {
	hook := s.config.OnError
	if hook == nil {
		return
	}
	defer func() { _ = recover() }()
	hook(err)
}
