package state

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/rehance/internal/validation"
)

// TrieNode is a record of named children derived from a Shape.
type TrieNode struct {
	base

	shape    Shape
	keys     []string
	children map[string]Node
	initial  map[string]any
}

// New creates the root of a new tree. WithParent is ignored.
func New(shape Shape, initial map[string]any, opts ...Option) (*TrieNode, error) {
	root := func(o *options) {
		o.parent = nil
		o.name = ""
	}
	return NewTrie(shape, initial, slices.Concat(opts, []Option{root})...)
}

// NewTrie creates a record node. Fields missing from initial take their
// declared default; fields the shape does not declare are rejected with
// ErrUnknownField.
func NewTrie(shape Shape, initial map[string]any, opts ...Option) (*TrieNode, error) {
	const op = "new trie"
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	t, err := resolveParent(op, o)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if o.parent != nil {
		prefix = joinPath(o.parent.Path(), o.name)
	}
	return builder{op: op, t: t}.trie(o.parent, o.name, prefix, shape, initial)
}

// Kind returns KindTrie.
func (n *TrieNode) Kind() Kind { return KindTrie }

// Shape returns the record's declaration.
func (n *TrieNode) Shape() Shape { return n.shape }

// Value returns a fresh map of the children's values.
func (n *TrieNode) Value() any {
	out := make(map[string]any, len(n.children))
	for key, child := range n.children {
		out[key] = child.Value()
	}
	return out
}

// InitialValue returns the record as it was right after construction.
func (n *TrieNode) InitialValue() any { return n.initial }

// Changed reports whether any child changed.
func (n *TrieNode) Changed() bool {
	for _, key := range n.keys {
		if n.children[key].Changed() {
			return true
		}
	}
	return false
}

// IsValid reports whether every child is valid.
func (n *TrieNode) IsValid() bool {
	for _, key := range n.keys {
		if !n.children[key].IsValid() {
			return false
		}
	}
	return true
}

// Keys returns the field names in sorted order.
func (n *TrieNode) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Child returns the named child, or nil.
func (n *TrieNode) Child(key string) Node {
	return n.children[key]
}

// Children returns a copy of the children map.
func (n *TrieNode) Children() map[string]Node {
	return maps.Clone(n.children)
}

// Field returns the named value child, or nil if it is missing or not a value.
func (n *TrieNode) Field(key string) *ValueNode {
	v, _ := n.children[key].(*ValueNode)
	return v
}

// Group returns the named record child, or nil.
func (n *TrieNode) Group(key string) *TrieNode {
	v, _ := n.children[key].(*TrieNode)
	return v
}

// Collection returns the named collection child, or nil.
func (n *TrieNode) Collection(key string) *CollectionNode {
	v, _ := n.children[key].(*CollectionNode)
	return v
}

// Find resolves a dotted path relative to n, e.g. "contacts.0.email".
// Collection items are addressed by index. The empty path is n itself.
func (n *TrieNode) Find(path string) (Node, error) {
	if path == "" {
		return n, nil
	}
	var cur Node = n
	for seg := range strings.SplitSeq(path, ".") {
		var next Node
		switch c := cur.(type) {
		case *TrieNode:
			next = c.Child(seg)
		case *CollectionNode:
			if i, err := strconv.Atoi(seg); err == nil {
				if item := c.At(i); item != nil {
					next = item
				}
			}
		}
		if next == nil {
			return nil, &StructureError{Op: "find", Node: n.id, Path: path, Err: ErrNotFound}
		}
		cur = next
	}
	return cur, nil
}

// TouchAll marks every value below n dirty and validates it, then publishes
// a single tree.touched event.
func (n *TrieNode) TouchAll() {
	touchAll(n)
	n.publish(TopicTreeTouched, nil)
}

// Validate runs the rules of every value below n and returns the failures
// keyed by field path. It does not publish.
func (n *TrieNode) Validate() []FieldFailure {
	_ = Walk(n, func(c Node) error {
		if v, ok := c.(*ValueNode); ok {
			v.validate()
		}
		return nil
	})
	return Failures(n)
}

// Messages returns the tree's message catalog.
func (n *TrieNode) Messages() validation.Messages {
	return n.tree.messages
}

// SetMessages replaces the message catalog of the whole tree, re-validates
// every field and publishes tree.refreshed from the root.
func (n *TrieNode) SetMessages(m validation.Messages) {
	n.tree.messages = m
	_ = Walk(n.root, func(c Node) error {
		if v, ok := c.(*ValueNode); ok {
			v.validate()
		}
		return nil
	})
	n.root.node().publish(TopicTreeRefreshed, nil)
}

func touchAll(root Node) {
	_ = Walk(root, func(c Node) error {
		if v, ok := c.(*ValueNode); ok {
			v.touch()
		}
		return nil
	})
}
