package event

import (
	"log/slog"

	"github.com/dshills/rehance/internal/address"
)

// BusOption configures a Bus.
type BusOption func(*busConfig)

type busConfig struct {
	logger *slog.Logger
	source string
}

func defaultBusConfig() busConfig {
	return busConfig{logger: slog.Default()}
}

// WithLogger sets the logger that receives handler faults. A nil logger is
// ignored.
func WithLogger(l *slog.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSource sets the Metadata.Source stamped on events published without
// one.
func WithSource(source string) BusOption {
	return func(c *busConfig) { c.source = source }
}

// SubscriptionConfig holds the settings of one subscription.
type SubscriptionConfig struct {
	// Pattern selects the event origins delivered. Defaults to address.All.
	Pattern address.Address

	// Priority orders handlers; lower runs first. Equal priorities run in
	// subscription order.
	Priority Priority

	// Filter, when set, must accept an event for it to be delivered.
	Filter FilterFunc

	// Once cancels the subscription after its first successful delivery.
	Once bool

	// OnError receives the handler's faults.
	OnError ErrorHandler
}

// DefaultSubscriptionConfig listens to every origin at PriorityNormal.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Pattern:  address.All,
		Priority: PriorityNormal,
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPattern restricts delivery to events whose origin matches p.
func WithPattern(p address.Address) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Pattern = p }
}

func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

func WithErrorHandler(h ErrorHandler) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.OnError = h }
}
