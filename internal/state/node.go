package state

import (
	"log/slog"
	"strconv"

	"github.com/dshills/rehance/internal/address"
	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/validation"
)

// Kind identifies the node variant.
type Kind int

const (
	// KindValue is a leaf holding one value.
	KindValue Kind = iota

	// KindTrie is a record of named children.
	KindTrie

	// KindCollection is an ordered list of records.
	KindCollection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindTrie:
		return "trie"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Event topics published by nodes.
const (
	TopicValueUpdated       event.Topic = "value.updated"
	TopicValueReset         event.Topic = "value.reset"
	TopicValueCleared       event.Topic = "value.cleared"
	TopicFieldFocused       event.Topic = "field.focused"
	TopicFieldBlurred       event.Topic = "field.blurred"
	TopicFieldTouched       event.Topic = "field.touched"
	TopicCollectionAppended event.Topic = "collection.appended"
	TopicCollectionFilled   event.Topic = "collection.filled"
	TopicCollectionDropped  event.Topic = "collection.dropped"
	TopicNodeNotified       event.Topic = "node.notified"
	TopicTreeTouched        event.Topic = "tree.touched"
	TopicTreeRefreshed      event.Topic = "tree.refreshed"
)

// ValueChange is the payload of value events.
type ValueChange struct {
	Old any
	New any
}

// FillRange is the payload of collection.filled: the index of the first new
// item and the number of items added.
type FillRange struct {
	From  int
	Count int
}

// Node is a node of a state trie. It is implemented by *ValueNode,
// *TrieNode and *CollectionNode only.
type Node interface {
	// ID returns the node's hierarchical address.
	ID() address.Address

	// Name returns the node's field name within its parent, or its index
	// for collection items. Roots have an empty name.
	Name() string

	// Path returns the dotted field path from the root, e.g. "contacts.0.email".
	Path() string

	// Kind returns the node variant.
	Kind() Kind

	// Parent returns the parent node, or nil for a root.
	Parent() Node

	// Root returns the tree's root. A root returns itself.
	Root() Node

	// Events returns the bus shared by every node of the tree.
	Events() *event.Bus

	// InitialValue returns the value captured at construction.
	InitialValue() any

	// Value returns the current value. Containers build a fresh value on
	// every call.
	Value() any

	// Changed reports whether the value differs from the initial value.
	Changed() bool

	// IsValid reports whether the node and its descendants are valid.
	IsValid() bool

	// Notify publishes node.notified without changing state.
	Notify()

	node() *base
}

// tree holds what every node of one tree shares.
type tree struct {
	bus      *event.Bus
	pub      *event.Publisher
	logger   *slog.Logger
	messages validation.Messages
}

func newTree(o options) *tree {
	bus := o.bus
	if bus == nil {
		bus = event.NewBus(event.WithLogger(o.logger), event.WithSource(Source))
	}
	logger := o.logger
	if logger == nil {
		logger = bus.Logger()
	}
	return &tree{
		bus:      bus,
		pub:      event.NewPublisher(bus, Source),
		logger:   logger,
		messages: o.messages,
	}
}

// base carries the identity and links shared by all node kinds.
type base struct {
	self   Node
	id     address.Address
	name   string
	parent Node
	root   Node
	tree   *tree
}

// init links b into its tree. A nil parent makes self a root.
func (b *base) init(self Node, t *tree, parent Node, name string) {
	b.self = self
	b.tree = t
	b.parent = parent
	b.name = name
	if parent == nil {
		b.id = address.New("")
		b.root = self
		return
	}
	b.id = address.New(parent.ID())
	b.root = parent.Root()
}

func (b *base) node() *base { return b }

// ID returns the node address.
func (b *base) ID() address.Address { return b.id }

// Parent returns the parent node, or nil for a root.
func (b *base) Parent() Node { return b.parent }

// Root returns the tree root.
func (b *base) Root() Node { return b.root }

// Events returns the tree's bus.
func (b *base) Events() *event.Bus { return b.tree.bus }

// Name returns the field name, or the current index for collection items.
func (b *base) Name() string {
	if c, ok := b.parent.(*CollectionNode); ok {
		if i := c.indexOf(b.self); i >= 0 {
			return strconv.Itoa(i)
		}
	}
	return b.name
}

// Path returns the dotted field path from the root.
func (b *base) Path() string {
	if b.parent == nil {
		return ""
	}
	return joinPath(b.parent.Path(), b.Name())
}

// Notify publishes node.notified.
func (b *base) Notify() {
	b.publish(TopicNodeNotified, nil)
}

func (b *base) publish(t event.Topic, payload any) {
	_ = b.tree.pub.Publish(t, b.id, payload)
}

func (b *base) logger() *slog.Logger {
	return b.tree.logger
}

// resolveParent checks the parent option and returns the tree to join.
func resolveParent(op string, o options) (*tree, error) {
	if o.parent == nil {
		return newTree(o), nil
	}
	switch p := o.parent.(type) {
	case *TrieNode:
		if p == nil {
			return nil, &StructureError{Op: op, Err: ErrIncompatibleParent}
		}
	case *CollectionNode:
		if p == nil {
			return nil, &StructureError{Op: op, Err: ErrIncompatibleParent}
		}
	default:
		return nil, &StructureError{Op: op, Node: o.parent.ID(), Err: ErrIncompatibleParent}
	}
	t := o.parent.node().tree
	if o.bus != nil && o.bus != t.bus {
		return nil, &StructureError{Op: op, Node: o.parent.ID(), Err: ErrIncompatibleParent}
	}
	return t, nil
}
