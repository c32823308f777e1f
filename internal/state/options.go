package state

import (
	"log/slog"

	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/validation"
)

// Source is stamped on every event published by state nodes.
const Source = "state"

// Option configures node construction.
type Option func(*options)

type options struct {
	parent   Node
	name     string
	bus      *event.Bus
	logger   *slog.Logger
	messages validation.Messages
	rules    []validation.Rule
}

// WithParent constructs the node under parent with the given field name.
// The node shares the parent's tree but is not added to the parent's
// children; only the Shape decides a container's children. parent must be a
// TrieNode or CollectionNode.
func WithParent(parent Node, name string) Option {
	return func(o *options) {
		o.parent = parent
		o.name = name
	}
}

// WithBus makes a new tree publish on an existing bus instead of creating
// its own.
func WithBus(bus *event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithLogger sets the tree logger. Structural operations log at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMessages sets the tree's message catalog.
func WithMessages(m validation.Messages) Option {
	return func(o *options) {
		o.messages = m
	}
}

// WithRules sets the rules of a node built by NewValue.
func WithRules(rules ...validation.Rule) Option {
	return func(o *options) {
		o.rules = append(o.rules, rules...)
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
